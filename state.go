package session

import (
	"fmt"
	"time"
)

// Status identifies which session variant is currently active.
type Status string

const (
	// StatusUninitialized is the state before the first restore completes.
	StatusUninitialized Status = "uninitialized"
	// StatusAnonymous means no valid token is held.
	StatusAnonymous Status = "anonymous"
	// StatusAuthenticated means a valid token and a profile are held.
	StatusAuthenticated Status = "authenticated"
)

// State is the broadcast session value. Exactly one status is active at a
// time; Profile and ExpiresAt are populated only while authenticated.
type State struct {
	Status    Status
	Profile   *UserProfile
	ExpiresAt time.Time
}

// Uninitialized is the state before the first restore.
func Uninitialized() State {
	return State{Status: StatusUninitialized}
}

// Anonymous is the state with no valid token.
func Anonymous() State {
	return State{Status: StatusAnonymous}
}

// Authenticated is the state holding a profile, full or degraded, and the
// claim expiry it was admitted under.
func Authenticated(profile *UserProfile, expiresAt time.Time) State {
	return State{Status: StatusAuthenticated, Profile: profile, ExpiresAt: expiresAt}
}

// IsAuthenticated reports whether the state holds a logged-in user.
func (s State) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}

// IsAnonymous reports whether the state holds no user.
func (s State) IsAnonymous() bool {
	return s.Status == StatusAnonymous
}

// Username returns the active profile's username, empty when anonymous.
func (s State) Username() string {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Username
}

func (s State) String() string {
	if !s.IsAuthenticated() {
		return string(s.Status)
	}
	return fmt.Sprintf("%s user=%s exp=%s", s.Status, s.Username(), s.ExpiresAt.Format(time.RFC3339))
}
