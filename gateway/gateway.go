// Package gateway implements the HTTP boundary to the SpendWise backend:
// credential login, account registration, and profile lookup. It maps
// backend failures onto the session error taxonomy so callers never see
// raw HTTP statuses.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"

	session "github.com/spendwise/go-session"
)

const (
	defaultLoginPath    = "/api/v1/auth/login"
	defaultRegisterPath = "/api/v1/auth/register"
	defaultProfilePath  = "/api/v1/auth/me"
)

// Config holds backend connection configuration.
type Config struct {
	BaseURL string

	LoginPath    string
	RegisterPath string
	ProfilePath  string

	HTTPClient *http.Client
	Logger     session.Logger

	// Debug dumps response payloads through the logger.
	Debug bool
}

// Client talks to the backend auth endpoints. It implements session.Gateway.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     session.Logger
}

// New creates a gateway client for the backend at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("gateway requires a base URL", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.LoginPath == "" {
		cfg.LoginPath = defaultLoginPath
	}
	if cfg.RegisterPath == "" {
		cfg.RegisterPath = defaultRegisterPath
	}
	if cfg.ProfilePath == "" {
		cfg.ProfilePath = defaultProfilePath
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = defLogger{}
	}

	return &Client{
		config:     cfg,
		httpClient: client,
		logger:     logger,
	}, nil
}

// Login exchanges credentials for a bearer token. The backend speaks the
// OAuth2 password flow, so the payload goes form-encoded.
func (c *Client) Login(ctx context.Context, username, password string) (*session.LoginResult, error) {
	data := url.Values{
		"username": {username},
		"password": {password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+c.config.LoginPath, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build login request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, status, err := c.do(req, "login")
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, session.ErrInvalidCredentials
	case http.StatusUnprocessableEntity:
		return nil, errors.New(detailMessage(body, "invalid login payload"), errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	default:
		return nil, unexpectedStatus("login", status, body)
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to decode login response")
	}
	if resp.AccessToken == "" {
		return nil, errors.New("login response missing access token", errors.CategoryInternal).
			WithCode(errors.CodeInternal)
	}

	return &session.LoginResult{
		Token:   resp.AccessToken,
		Profile: resp.profile(),
	}, nil
}

// Register creates an account. The backend reports an existing email or
// username as one undifferentiated conflict, so the error does not say
// which field collided.
func (c *Client) Register(ctx context.Context, payload session.Registration) (*session.UserProfile, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to encode registration")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+c.config.RegisterPath, bytes.NewReader(buf))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build register request")
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := c.do(req, "register")
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK, http.StatusCreated:
	case http.StatusBadRequest, http.StatusConflict:
		return nil, session.ErrAccountConflict
	case http.StatusUnprocessableEntity:
		return nil, errors.New(detailMessage(body, "invalid registration payload"), errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	default:
		return nil, unexpectedStatus("register", status, body)
	}

	var profile session.UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to decode register response")
	}

	return &profile, nil
}

// FetchProfile loads the authoritative profile for the bearer token.
func (c *Client) FetchProfile(ctx context.Context, token string) (*session.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+c.config.ProfilePath, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build profile request")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	body, status, err := c.do(req, "profile")
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, session.ErrUnauthorized
	default:
		return nil, unexpectedStatus("profile", status, body)
	}

	var profile session.UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to decode profile response")
	}

	return &profile, nil
}

// do executes the request with a correlation id and returns the raw body.
// Transport failures come back as network errors carrying the request
// metadata; HTTP statuses are the caller's to interpret.
func (c *Client) do(req *http.Request, operation string) ([]byte, int, error) {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("gateway %s %s %s request_id=%s", operation, req.Method, req.URL.Path, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, networkError(err, operation, req, requestID)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, networkError(err, operation, req, requestID)
	}

	if c.config.Debug {
		var payload any
		if err := json.Unmarshal(body, &payload); err == nil {
			c.logger.Debug("gateway %s response %d: %s", operation, resp.StatusCode, print.MaybePrettyJSON(payload))
		}
	}

	return body, resp.StatusCode, nil
}

// loginResponse tolerates both shapes the backend has shipped for login: a
// nested user object and the flat user_id/username pair.
type loginResponse struct {
	AccessToken string               `json:"access_token"`
	TokenType   string               `json:"token_type"`
	User        *session.UserProfile `json:"user"`
	UserID      int64                `json:"user_id"`
	Username    string               `json:"username"`
}

// profile returns the user info carried by the response, or nil when the
// caller should degrade to claims.
func (r loginResponse) profile() *session.UserProfile {
	if r.User != nil {
		return r.User
	}
	if r.UserID == 0 && r.Username == "" {
		return nil
	}
	return &session.UserProfile{
		ID:       r.UserID,
		Username: r.Username,
	}
}

func networkError(err error, operation string, req *http.Request, requestID string) error {
	return errors.Wrap(err, session.ErrNetwork.Category, session.ErrNetwork.Message).
		WithTextCode(session.ErrNetwork.TextCode).
		WithCode(errors.CodeInternal).
		WithMetadata(map[string]any{
			"operation":  operation,
			"method":     req.Method,
			"url":        req.URL.String(),
			"request_id": requestID,
		})
}

func unexpectedStatus(operation string, status int, body []byte) error {
	return errors.New(fmt.Sprintf("%s failed with status %d", operation, status), errors.CategoryOperation).
		WithCode(status).
		WithMetadata(map[string]any{
			"operation": operation,
			"status":    status,
			"detail":    detailMessage(body, ""),
		})
}

// detailMessage extracts the backend's {"detail": ...} error body, which is
// a plain string on handled failures and a list of field errors on
// validation rejections.
func detailMessage(body []byte, fallback string) string {
	var wrapper struct {
		Detail any `json:"detail"`
	}

	if err := json.Unmarshal(body, &wrapper); err == nil {
		switch detail := wrapper.Detail.(type) {
		case string:
			if detail != "" {
				return detail
			}
		case []any:
			parts := make([]string, 0, len(detail))
			for _, item := range detail {
				if m, ok := item.(map[string]any); ok {
					if msg, ok := m["msg"].(string); ok {
						parts = append(parts, msg)
						continue
					}
				}
				parts = append(parts, fmt.Sprintf("%v", item))
			}
			if len(parts) > 0 {
				return strings.Join(parts, "; ")
			}
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fallback
	}

	return msg
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GATEWAY "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] GATEWAY "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GATEWAY "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GATEWAY "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

var _ session.Gateway = (*Client)(nil)
