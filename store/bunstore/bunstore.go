// Package bunstore persists the session token in a SQL database through
// bun. It suits hosts that already carry a database and want the session
// to survive restarts alongside the rest of their state.
package bunstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	session "github.com/spendwise/go-session"
)

// DefaultProfile names the row used when no profile is configured.
const DefaultProfile = "default"

// TokenModel is the bun model for stored session tokens. One row per
// profile; profiles keep independent sessions apart, for example one per
// backend environment.
type TokenModel struct {
	bun.BaseModel `bun:"table:session_tokens"`

	ID        uuid.UUID `bun:"id,pk,nullzero,type:uuid"`
	Profile   string    `bun:"profile,notnull"`
	Token     string    `bun:"token,notnull"`
	UpdatedAt time.Time `bun:"updated_at,default:current_timestamp"`
}

const createTokensSQL = `CREATE TABLE IF NOT EXISTS session_tokens (
    id TEXT NOT NULL PRIMARY KEY,
    profile TEXT NOT NULL,
    token TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT uq_session_tokens_profile UNIQUE (profile)
);`

// Install creates the backing table when it does not exist yet.
func Install(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, createTokensSQL)
	return err
}

// Store implements session.TokenStore on a bun database.
type Store struct {
	db      *bun.DB
	profile string
	now     func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithProfile selects the profile row the store reads and writes.
func WithProfile(profile string) Option {
	return func(s *Store) {
		if profile != "" {
			s.profile = profile
		}
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// New creates a token store backed by db.
func New(db *bun.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, errors.New("bun token store requires a database", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	s := &Store{
		db:      db,
		profile: DefaultProfile,
		now:     time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s, nil
}

// Save stores the token, replacing any previous value for the profile.
// Saving an empty token reads back as absent.
func (s *Store) Save(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}

	model := &TokenModel{
		ID:        profileID(s.profile),
		Profile:   s.profile,
		Token:     token,
		UpdatedAt: s.now().UTC(),
	}

	_, err := s.db.NewInsert().
		Model(model).
		On("CONFLICT (profile) DO UPDATE").
		Set("token = EXCLUDED.token").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)

	return err
}

// profileID derives a stable row id from the profile name, so a profile
// keeps its id across clears and reinstalls.
func profileID(profile string) uuid.UUID {
	if id, err := hashid.NewUUID(profile); err == nil {
		return id
	}
	return uuid.New()
}

// Load returns the stored token. The boolean reports whether one is present.
func (s *Store) Load(ctx context.Context) (string, bool, error) {
	var model TokenModel
	err := s.db.NewSelect().
		Model(&model).
		Where("profile = ?", s.profile).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}

	return model.Token, model.Token != "", nil
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.NewDelete().
		Model((*TokenModel)(nil)).
		Where("profile = ?", s.profile).
		Exec(ctx)

	return err
}

var _ session.TokenStore = (*Store)(nil)
