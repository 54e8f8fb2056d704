package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
)

// FileTokenStore persists the token as a small JSON state file readable
// only by the owning user. A missing file reads as an absent token, so
// first runs and cleared sessions look the same.
type FileTokenStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

type tokenFileState struct {
	Token     string    `json:"token"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileTokenStoreOption customizes a FileTokenStore.
type FileTokenStoreOption func(*FileTokenStore)

// WithFileStoreClock injects a custom clock (useful for tests).
func WithFileStoreClock(clock func() time.Time) FileTokenStoreOption {
	return func(s *FileTokenStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewFileTokenStore creates a store rooted at path, creating parent
// directories as needed.
func NewFileTokenStore(path string, opts ...FileTokenStoreOption) (*FileTokenStore, error) {
	if path == "" {
		return nil, errors.New("file token store requires a path", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to prepare token store directory")
	}

	s := &FileTokenStore{
		path: path,
		now:  time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s, nil
}

// Save writes the token to disk, replacing any previous value.
func (s *FileTokenStore) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(tokenFileState{
		Token:     token,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to encode token state")
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to write token state")
	}

	return nil
}

// Load reads the token from disk. A missing file is reported as absent, not
// as an error.
func (s *FileTokenStore) Load(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, errors.CategoryInternal, "failed to read token state")
	}

	var state tokenFileState
	if err := json.Unmarshal(data, &state); err != nil {
		return "", false, errors.Wrap(err, errors.CategoryInternal, "failed to decode token state")
	}

	if state.Token == "" {
		return "", false, nil
	}

	return state.Token, true, nil
}

// Clear deletes the state file. Clearing an already empty store is a no-op.
func (s *FileTokenStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.CategoryInternal, "failed to clear token state")
	}

	return nil
}

// Path returns the location of the state file.
func (s *FileTokenStore) Path() string {
	return s.path
}

var _ TokenStore = (*FileTokenStore)(nil)
