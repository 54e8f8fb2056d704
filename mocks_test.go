package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	session "github.com/spendwise/go-session"
)

// MockGateway implements session.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Login(ctx context.Context, username, password string) (*session.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if res := args.Get(0); res != nil {
		return res.(*session.LoginResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) Register(ctx context.Context, payload session.Registration) (*session.UserProfile, error) {
	args := m.Called(ctx, payload)
	if res := args.Get(0); res != nil {
		return res.(*session.UserProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) FetchProfile(ctx context.Context, token string) (*session.UserProfile, error) {
	args := m.Called(ctx, token)
	if res := args.Get(0); res != nil {
		return res.(*session.UserProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

// funcGateway lets a test script gateway behavior, including blocking calls
// for ordering-sensitive scenarios.
type funcGateway struct {
	loginFn        func(ctx context.Context, username, password string) (*session.LoginResult, error)
	registerFn     func(ctx context.Context, payload session.Registration) (*session.UserProfile, error)
	fetchProfileFn func(ctx context.Context, token string) (*session.UserProfile, error)
}

func (g *funcGateway) Login(ctx context.Context, username, password string) (*session.LoginResult, error) {
	if g.loginFn == nil {
		return nil, session.ErrNetwork
	}
	return g.loginFn(ctx, username, password)
}

func (g *funcGateway) Register(ctx context.Context, payload session.Registration) (*session.UserProfile, error) {
	if g.registerFn == nil {
		return nil, session.ErrNetwork
	}
	return g.registerFn(ctx, payload)
}

func (g *funcGateway) FetchProfile(ctx context.Context, token string) (*session.UserProfile, error) {
	if g.fetchProfileFn == nil {
		return nil, session.ErrNetwork
	}
	return g.fetchProfileFn(ctx, token)
}

// recordingSink collects activity events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []session.ActivityEvent
}

func (s *recordingSink) Record(ctx context.Context, event session.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) byType(eventType session.ActivityEventType) []session.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []session.ActivityEvent
	for _, e := range s.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

func mintToken(t *testing.T, subject, username string, expiresAt time.Time) string {
	t.Helper()

	claims := &session.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-30 * time.Minute)),
		},
		Username: username,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return token
}

func waitForStatus(t *testing.T, ch <-chan session.State, want session.Status) session.State {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case st, ok := <-ch:
			require.True(t, ok, "state channel closed while waiting for %s", want)
			if st.Status == want {
				return st
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %s", want)
		}
	}
}
