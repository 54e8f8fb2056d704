package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token fields the client relies on: the registered subject
// and expiry plus the username the backend embeds for display. Claims are
// produced by a TokenCodec, never hand-constructed.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}

// Subject returns the subject claim, the backend's user id in string form.
func (c *Claims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration time
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *Claims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
