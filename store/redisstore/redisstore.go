// Package redisstore persists the session token in Redis. It fits
// deployments where several processes on the same account share one
// session, and an optional TTL lets the stored copy age out alongside
// the token itself.
package redisstore

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"

	session "github.com/spendwise/go-session"
)

// DefaultKey is the Redis key used when none is configured.
const DefaultKey = "spendwise:session:token"

// Store implements session.TokenStore on a Redis client.
type Store struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// Option customizes a Store.
type Option func(*Store)

// WithKey overrides the Redis key the token lives under.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithTTL expires the stored token after d. Zero keeps it until cleared.
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// New creates a token store backed by client.
func New(client redis.UniversalClient, opts ...Option) (*Store, error) {
	if client == nil {
		return nil, errors.New("redis token store requires a client", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	s := &Store{
		client: client,
		key:    DefaultKey,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s, nil
}

// Save stores the token, replacing any previous value. Saving an empty
// token reads back as absent.
func (s *Store) Save(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}

	return s.client.Set(ctx, s.key, token, s.ttl).Err()
}

// Load returns the stored token. The boolean reports whether one is
// present; an expired key reads as absent.
func (s *Store) Load(ctx context.Context) (string, bool, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return token, token != "", nil
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (s *Store) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

var _ session.TokenStore = (*Store)(nil)
