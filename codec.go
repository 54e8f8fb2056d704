package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// JWTCodec extracts claims from bearer tokens without verifying the
// signature. The backend re-verifies every authenticated request, so the
// client treats decoded claims as advisory: good enough to render a name
// and schedule an expiry check, never proof of identity.
type JWTCodec struct {
	parser *jwt.Parser
	logger Logger
}

// CodecOption customizes codec construction.
type CodecOption func(*JWTCodec)

// WithCodecLogger overrides the default logger.
func WithCodecLogger(logger Logger) CodecOption {
	return func(c *JWTCodec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewJWTCodec returns a codec ready to decode backend-issued tokens.
func NewJWTCodec(opts ...CodecOption) *JWTCodec {
	c := &JWTCodec{
		parser: jwt.NewParser(),
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// Decode parses the token into Claims. Tokens that cannot be parsed, or
// that omit the subject or expiry claims, fail as malformed; partial claims
// are never returned.
func (c *JWTCodec) Decode(token string) (*Claims, error) {
	claims := &Claims{}

	if _, _, err := c.parser.ParseUnverified(token, claims); err != nil {
		c.logger.Debug("codec failed to parse token: %v", err)
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims.RegisteredClaims.Subject == "" || claims.RegisteredClaims.ExpiresAt == nil {
		return nil, ErrTokenMalformed.WithMetadata(map[string]any{
			"has_subject": claims.RegisteredClaims.Subject != "",
			"has_expiry":  claims.RegisteredClaims.ExpiresAt != nil,
		})
	}

	return claims, nil
}

// IsExpired reports whether the claims expire at or before now.
func (c *JWTCodec) IsExpired(claims *Claims, now time.Time) bool {
	if claims == nil || claims.RegisteredClaims.ExpiresAt == nil {
		return true
	}
	return !claims.Expires().After(now)
}

var _ TokenCodec = (*JWTCodec)(nil)
