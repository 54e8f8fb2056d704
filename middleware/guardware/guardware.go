// Package guardware gates go-router handler chains on the broadcast session
// state. Each request is judged by a session.Guard against the state a
// StateSource reports: authenticated profiles ride into Locals and, when
// configured, the request context; anonymous visitors are parked and bounced
// to the login surface.
package guardware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-router"
	session "github.com/spendwise/go-session"
)

const (
	// DefaultContextKey is the Locals slot the active profile is stored under.
	DefaultContextKey = "session_user"
	// DefaultRedirectKey is the cookie holding the route a visitor was
	// bounced from, consumed after the next successful login.
	DefaultRedirectKey = "rejected_route"
)

// StateSource reports the session state a navigation is judged against.
// *session.Manager satisfies it.
type StateSource interface {
	Current() session.State
}

type Config struct {
	// Filter defines a function to skip this middleware when it returns true.
	Filter func(router.Context) bool

	// Source reports the current session state. Required.
	Source StateSource

	// Guard turns a state into an allow or redirect verdict. Defaults to
	// session.NewGuard, which routes denied navigation to /login.
	Guard *session.Guard

	// ContextKey names the Locals slot the active profile is stored under.
	ContextKey string

	// RedirectKey names the cookie the rejected route is parked in before
	// the redirect to the login surface.
	RedirectKey string

	// ContextEnricher propagates the active profile into the standard Go
	// context. When set it runs after the guard allows the navigation.
	ContextEnricher func(c context.Context, profile *session.UserProfile) context.Context

	// ErrorHandler runs when the guard denies the navigation. The default
	// parks the rejected route and redirects to the guard's login path.
	ErrorHandler router.ErrorHandler

	Logger session.Logger
}

// New returns a middleware that evaluates the session state before each
// request. Configuration errors panic at wiring time, not per request.
func New(config ...Config) router.MiddlewareFunc {
	cfg := GetDefaultConfig(config...)

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return next(ctx)
			}

			state := cfg.Source.Current()

			decision := cfg.Guard.Decide(state)
			if !decision.Allow {
				return cfg.ErrorHandler(ctx, session.ErrUnauthorized)
			}

			ctx.Locals(cfg.ContextKey, state.Profile)

			if cfg.ContextEnricher != nil {
				stdCtx := cfg.ContextEnricher(ctx.Context(), state.Profile)
				ctx.SetContext(stdCtx)
			}

			return next(ctx)
		}
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Source == nil {
		panic("SESSION: guard middleware configuration: Source is required.")
	}

	if cfg.Guard == nil {
		cfg.Guard = session.NewGuard()
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.RedirectKey == "" {
		cfg.RedirectKey = DefaultRedirectKey
	}

	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = makeRedirectErrorHandler(cfg)
	}

	return cfg
}

// makeRedirectErrorHandler builds the default denial response: remember the
// rejected route, then redirect to the login surface. GET navigations use
// 302; mutations use 303 so the post-login retry lands as a GET.
func makeRedirectErrorHandler(cfg Config) router.ErrorHandler {
	return func(c router.Context, err error) error {
		cfg.Logger.Info("navigation denied, redirecting to %s: %s %s", cfg.Guard.LoginPath(), c.Method(), c.OriginalURL())

		RememberRejectedRoute(c, cfg.RedirectKey)

		statusCode := http.StatusSeeOther
		if c.Method() == string(router.GET) {
			statusCode = http.StatusFound
		}
		return c.Redirect(cfg.Guard.LoginPath(), statusCode)
	}
}

// APIErrorHandler answers denied requests with a status code instead of a
// redirect, for JSON surfaces that run their own login flow. The body keeps
// the backend's {"detail": ...} error shape.
func APIErrorHandler(c router.Context, err error) error {
	if errors.Is(err, session.ErrUnauthorized) {
		return c.JSON(router.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
	}
	return c.JSON(router.StatusInternalServerError, map[string]string{"detail": err.Error()})
}

// RememberRejectedRoute parks the current route in a short-lived cookie so
// the login flow can send the visitor back where they were headed.
func RememberRejectedRoute(ctx router.Context, key string) {
	ctx.Cookie(&router.Cookie{
		Name:     key,
		Value:    ctx.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// ConsumeRedirect returns the parked route and clears the cookie. When no
// route was parked it returns def and leaves cookies alone.
func ConsumeRedirect(ctx router.Context, key, def string) string {
	r := ctx.Cookies(key)
	if r == "" {
		return def
	}
	clearCookie(ctx, key)
	return r
}

func clearCookie(ctx router.Context, name string) {
	ctx.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GUARD "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] GUARD "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GUARD "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GUARD "+newline(format), args...)
}

func newline(format string) string {
	if strings.HasSuffix(format, "\n") {
		return format
	}
	return format + "\n"
}
