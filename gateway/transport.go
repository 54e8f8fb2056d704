package gateway

import (
	"net/http"

	session "github.com/spendwise/go-session"
)

// BearerTransport decorates an http.RoundTripper with the session's stored
// token. Requests go out untouched when no token is present, so the same
// client serves public and protected endpoints.
type BearerTransport struct {
	// Base is the wrapped transport, http.DefaultTransport when nil.
	Base http.RoundTripper

	// Source provides the current token, usually the session manager.
	Source session.TokenSource

	// OnUnauthorized runs when the backend rejects the attached token,
	// giving the session layer a chance to revalidate.
	OnUnauthorized func()
}

// NewBearerTransport returns a transport drawing tokens from source.
func NewBearerTransport(source session.TokenSource) *BearerTransport {
	return &BearerTransport{Source: source}
}

// Client wraps the transport in an http.Client ready for API calls.
func (t *BearerTransport) Client() *http.Client {
	return &http.Client{Transport: t}
}

// RoundTrip implements http.RoundTripper. The incoming request is never
// mutated; the token is attached to a clone.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if t.Source != nil {
		if token, ok, err := t.Source.Token(req.Context()); err == nil && ok {
			clone := req.Clone(req.Context())
			clone.Header.Set("Authorization", "Bearer "+token)
			req = clone
		}
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && t.OnUnauthorized != nil {
		t.OnUnauthorized()
	}

	return resp, nil
}

var _ http.RoundTripper = (*BearerTransport)(nil)
