package session

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Manager owns the session state machine. It is the sole writer to the
// token store and the state channel; collaborators read state through
// Current, Subscribe, or the context helpers and never mutate it.
//
// Asynchronous operations are stamped with a generation counter: a login
// completion that lands after a later logout or login has advanced the
// session is discarded instead of overwriting the newer state.
type Manager struct {
	store   TokenStore
	codec   TokenCodec
	gateway Gateway
	channel StateChannel

	mu    sync.Mutex
	state State
	epoch uint64

	transitions map[Status]map[Status]struct{}
	now         func() time.Time
	activity    ActivitySink
	logger      Logger
}

// ManagerOption customizes manager construction.
type ManagerOption func(*Manager)

// WithLogger overrides the default logger.
func WithLogger(logger Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) ManagerOption {
	return func(m *Manager) {
		if clock != nil {
			m.now = clock
		}
	}
}

// WithActivitySink sets the ActivitySink used to publish session events.
func WithActivitySink(sink ActivitySink) ManagerOption {
	return func(m *Manager) {
		m.activity = normalizeActivitySink(sink)
	}
}

// WithChannel replaces the default state channel.
func WithChannel(ch StateChannel) ManagerOption {
	return func(m *Manager) {
		if ch != nil {
			m.channel = ch
		}
	}
}

// NewManager wires the store, codec, and gateway into a session manager.
// A nil store falls back to memory, a nil codec to the JWT codec. The
// initial state is uninitialized until Restore runs.
func NewManager(store TokenStore, codec TokenCodec, gateway Gateway, opts ...ManagerOption) *Manager {
	if store == nil {
		store = NewMemoryTokenStore()
	}
	if codec == nil {
		codec = NewJWTCodec()
	}

	m := &Manager{
		store:   store,
		codec:   codec,
		gateway: gateway,
		channel: NewChannel(),
		transitions: map[Status]map[Status]struct{}{
			StatusUninitialized: {
				StatusAnonymous:     {},
				StatusAuthenticated: {},
			},
			StatusAnonymous: {
				StatusAnonymous:     {},
				StatusAuthenticated: {},
			},
			StatusAuthenticated: {
				StatusAnonymous:     {},
				StatusAuthenticated: {},
			},
		},
		now:      time.Now,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	m.state = Uninitialized()
	m.channel.Publish(m.state)

	return m
}

// Current returns the latest session state.
func (m *Manager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers a collaborator with the state channel. The current
// state is replayed immediately.
func (m *Manager) Subscribe() (<-chan State, func()) {
	return m.channel.Subscribe()
}

// Token implements TokenSource with the currently stored token.
func (m *Manager) Token(ctx context.Context) (string, bool, error) {
	return m.store.Load(ctx)
}

// Restore rebuilds session state from storage. It runs once at startup: an
// absent, malformed, or expired token resolves to anonymous with the store
// cleared in the same operation, while a valid token resolves to
// authenticated even when the profile fetch fails (the profile then
// degrades to the claim's username).
func (m *Manager) Restore(ctx context.Context) State {
	m.mu.Lock()
	m.epoch++
	epoch := m.epoch

	token, ok, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Error("restore could not read token store: %v", err)
		st := m.invalidateLocked(ctx, "store_read_failed", err)
		m.mu.Unlock()
		return st
	}
	if !ok {
		st := m.toStateLocked(ctx, Anonymous(), ActivityEvent{
			EventType: ActivityEventSessionRestored,
			ToStatus:  StatusAnonymous,
		})
		m.mu.Unlock()
		return st
	}

	claims, err := m.codec.Decode(token)
	if err != nil {
		m.logger.Info("restore rejected stored token: %v", err)
		st := m.invalidateLocked(ctx, "malformed", err)
		m.mu.Unlock()
		return st
	}

	if m.codec.IsExpired(claims, m.now()) {
		m.logger.Info("restore rejected expired token for %q", claims.Username)
		st := m.invalidateLocked(ctx, "expired", nil)
		m.mu.Unlock()
		return st
	}

	m.mu.Unlock()

	profile, perr := m.gateway.FetchProfile(ctx, token)

	m.mu.Lock()
	defer m.mu.Unlock()

	if epoch != m.epoch {
		return m.state
	}

	if perr != nil {
		m.logger.Warn("restore profile fetch failed, degrading profile: %v", perr)
		profile = DegradedProfile(claims)
	}

	return m.toStateLocked(ctx, Authenticated(profile, claims.Expires()), ActivityEvent{
		EventType: ActivityEventSessionRestored,
		Username:  claims.Username,
		ToStatus:  StatusAuthenticated,
	})
}

// Login exchanges credentials for a token, persists it, and publishes the
// authenticated state before returning. The just-minted token is trusted
// without an expiry re-check. On failure the state is left unchanged and
// the error is returned to the caller for display.
func (m *Manager) Login(ctx context.Context, username, password string) (State, error) {
	creds := Credentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		return m.Current(), goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload").
			WithCode(goerrors.CodeBadRequest)
	}

	m.mu.Lock()
	m.epoch++
	epoch := m.epoch
	m.mu.Unlock()

	result, err := m.gateway.Login(ctx, username, password)
	if err != nil {
		m.logger.Error("login failed for %q: %v", username, err)
		m.recordActivity(ctx, ActivityEvent{
			EventType: ActivityEventLoginFailure,
			Username:  username,
			Metadata:  map[string]any{"error": err.Error()},
		})
		return m.Current(), err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if epoch != m.epoch {
		m.logger.Info("discarding superseded login for %q", username)
		return m.state, ErrLoginSuperseded
	}

	if err := m.store.Save(ctx, result.Token); err != nil {
		return m.state, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist session token")
	}

	claims, err := m.codec.Decode(result.Token)
	if err != nil {
		m.logger.Error("login returned an undecodable token: %v", err)
		st := m.invalidateLocked(ctx, "login_token_malformed", err)
		return st, goerrors.Wrap(err, ErrTokenMalformed.Category, "login returned an unusable token").
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	profile := result.Profile
	if profile == nil {
		profile = DegradedProfile(claims)
	}

	st := m.toStateLocked(ctx, Authenticated(profile, claims.Expires()), ActivityEvent{
		EventType: ActivityEventLoginSuccess,
		Username:  profile.Username,
		ToStatus:  StatusAuthenticated,
	})

	return st, nil
}

// Logout clears the stored token and publishes anonymous regardless of the
// current state. Logging out twice is a no-op.
func (m *Manager) Logout(ctx context.Context) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.epoch++

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("logout could not clear token store: %v", err)
	}

	return m.toStateLocked(ctx, Anonymous(), ActivityEvent{
		EventType: ActivityEventLogout,
		Username:  m.state.Username(),
		ToStatus:  StatusAnonymous,
	})
}

// Revalidate re-checks the stored token outside of Restore, as a route
// guard does before sensitive navigation. Decode and expiry failures take
// the same clear-and-anonymous path as Restore; a valid token keeps the
// current profile without a network round trip.
func (m *Manager) Revalidate(ctx context.Context) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.epoch++

	token, ok, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Error("revalidate could not read token store: %v", err)
		return m.invalidateLocked(ctx, "store_read_failed", err)
	}
	if !ok {
		if m.state.IsAnonymous() {
			return m.state
		}
		return m.toStateLocked(ctx, Anonymous(), ActivityEvent{
			EventType: ActivityEventTokenRejected,
			ToStatus:  StatusAnonymous,
			Metadata:  map[string]any{"reason": "token_missing"},
		})
	}

	claims, err := m.codec.Decode(token)
	if err != nil {
		return m.invalidateLocked(ctx, "malformed", err)
	}
	if m.codec.IsExpired(claims, m.now()) {
		return m.invalidateLocked(ctx, "expired", nil)
	}

	profile := m.state.Profile
	if profile == nil {
		profile = DegradedProfile(claims)
	}

	return m.toStateLocked(ctx, Authenticated(profile, claims.Expires()), ActivityEvent{
		EventType: ActivityEventSessionRestored,
		Username:  claims.Username,
		ToStatus:  StatusAuthenticated,
		Metadata:  map[string]any{"reason": "revalidated"},
	})
}

// Register creates a new account. The session state does not change: the
// backend returns a profile, not a token, and the caller decides whether to
// follow with a login.
func (m *Manager) Register(ctx context.Context, payload Registration) (*UserProfile, error) {
	if err := payload.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload").
			WithCode(goerrors.CodeBadRequest)
	}

	profile, err := m.gateway.Register(ctx, payload)
	if err != nil {
		m.recordActivity(ctx, ActivityEvent{
			EventType: ActivityEventRegisterFailure,
			Username:  payload.Username,
			Metadata:  map[string]any{"error": err.Error()},
		})
		return nil, err
	}

	m.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventRegisterSuccess,
		Username:  profile.Username,
	})

	return profile, nil
}

// invalidateLocked clears the store and moves to anonymous in one step so
// storage and broadcast state cannot diverge. Callers hold m.mu.
func (m *Manager) invalidateLocked(ctx context.Context, reason string, cause error) State {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("failed to clear token store: %v", err)
	}

	meta := map[string]any{"reason": reason}
	if cause != nil {
		meta["error"] = cause.Error()
	}

	return m.toStateLocked(ctx, Anonymous(), ActivityEvent{
		EventType: ActivityEventTokenRejected,
		ToStatus:  StatusAnonymous,
		Metadata:  meta,
	})
}

func (m *Manager) toStateLocked(ctx context.Context, next State, event ActivityEvent) State {
	from := m.state.Status
	if !m.canTransition(from, next.Status) {
		m.logger.Error("refusing state change from %s to %s", from, next.Status)
		return m.state
	}

	m.state = next
	m.channel.Publish(next)

	event.FromStatus = from
	m.recordActivity(ctx, event)

	return m.state
}

func (m *Manager) canTransition(from, to Status) bool {
	if allowed, ok := m.transitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}

func (m *Manager) recordActivity(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = m.now()
	}

	sink := normalizeActivitySink(m.activity)
	if err := sink.Record(ctx, event); err != nil {
		m.logger.Warn("session activity sink error: %v", err)
	}
}

var _ TokenSource = (*Manager)(nil)
