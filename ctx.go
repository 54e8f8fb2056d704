package session

import (
	"context"
)

var profileCtxKey = &contextKey{"profile"}
var managerCtxKey = &contextKey{"manager"}

type contextKey struct {
	name string
}

// WithContext sets the UserProfile in the given context
func WithContext(ctx context.Context, profile *UserProfile) context.Context {
	return context.WithValue(ctx, profileCtxKey, profile)
}

// FromContext finds the profile from the context.
func FromContext(ctx context.Context) (*UserProfile, bool) {
	raw, ok := ctx.Value(profileCtxKey).(*UserProfile)
	return raw, ok
}

// WithManagerContext sets the Manager in the given context so collaborators
// receive the explicitly constructed instance instead of a global lookup.
func WithManagerContext(ctx context.Context, manager *Manager) context.Context {
	return context.WithValue(ctx, managerCtxKey, manager)
}

// ManagerFromContext extracts the Manager from the context.
func ManagerFromContext(ctx context.Context) (*Manager, bool) {
	raw, ok := ctx.Value(managerCtxKey).(*Manager)
	return raw, ok
}
