package session

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenStore is durable storage for the single bearer token of this client
// installation. Implementations hold exactly one slot and make writes
// visible to the next Load with no caching layer in between.
type TokenStore interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, bool, error)
	Clear(ctx context.Context) error
}

// TokenCodec turns an opaque token into Claims without verifying its
// signature, and answers expiry checks against a supplied instant.
type TokenCodec interface {
	Decode(token string) (*Claims, error)
	IsExpired(claims *Claims, now time.Time) bool
}

// Gateway is the network boundary for credential exchange and profile
// retrieval.
type Gateway interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Register(ctx context.Context, payload Registration) (*UserProfile, error)
	FetchProfile(ctx context.Context, token string) (*UserProfile, error)
}

// StateChannel broadcasts session state with replay-last-value semantics.
type StateChannel interface {
	Publish(state State)
	Subscribe() (<-chan State, func())
	Current() (State, bool)
}

// TokenSource exposes the currently stored token to HTTP plumbing that
// attaches bearer credentials.
type TokenSource interface {
	Token(ctx context.Context) (string, bool, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
