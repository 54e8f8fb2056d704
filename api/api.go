// Package api provides typed access to the authenticated SpendWise
// endpoints: transactions, savings goals, dashboard analytics, budget
// predictions, and badges. Callers normally hand it an http.Client built
// around gateway.BearerTransport so the stored session token rides along
// with every request.
package api

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

const defaultBasePath = "/api/v1"

// Config holds backend connection configuration.
type Config struct {
	BaseURL  string
	BasePath string

	// HTTPClient should wrap gateway.BearerTransport; a bare client works
	// but every protected call will come back unauthorized.
	HTTPClient *http.Client
	Logger     session.Logger

	// Debug dumps response payloads through the logger.
	Debug bool
}

// Client issues requests against the protected API surface.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     session.Logger
}

// New creates an API client for the backend at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("api client requires a base URL", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BasePath == "" {
		cfg.BasePath = defaultBasePath
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

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.request(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, query url.Values, payload, out any) error {
	return c.request(ctx, http.MethodPost, path, query, payload, out)
}

func (c *Client) put(ctx context.Context, path string, payload, out any) error {
	return c.request(ctx, http.MethodPut, path, nil, payload, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.request(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) request(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	endpoint := c.config.BaseURL + c.config.BasePath + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to encode request payload")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

// do executes the request and decodes the response into out. Statuses are
// mapped onto the session taxonomy so collaborators branch on error kind,
// not on HTTP codes.
func (c *Client) do(req *http.Request, out any) error {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("api %s %s request_id=%s", req.Method, req.URL.Path, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, session.ErrNetwork.Category, session.ErrNetwork.Message).
			WithTextCode(session.ErrNetwork.TextCode).
			WithCode(errors.CodeInternal).
			WithMetadata(map[string]any{
				"method":     req.Method,
				"url":        req.URL.String(),
				"request_id": requestID,
			})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, session.ErrNetwork.Category, session.ErrNetwork.Message).
			WithTextCode(session.ErrNetwork.TextCode).
			WithCode(errors.CodeInternal).
			WithMetadata(map[string]any{"request_id": requestID})
	}

	if c.config.Debug {
		var payload any
		if err := json.Unmarshal(body, &payload); err == nil {
			c.logger.Debug("api %s %s response %d: %s", req.Method, req.URL.Path, resp.StatusCode, print.MaybePrettyJSON(payload))
		}
	}

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
	case resp.StatusCode == http.StatusUnauthorized:
		return session.ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return errors.New(detailMessage(body, "not authorized for this resource"), errors.CategoryAuthz).
			WithCode(errors.CodeForbidden)
	case resp.StatusCode == http.StatusNotFound:
		return errors.New(detailMessage(body, "resource not found"), errors.CategoryNotFound).
			WithCode(errors.CodeNotFound)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return errors.New(detailMessage(body, "request rejected"), errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	default:
		return errors.New(fmt.Sprintf("request failed with status %d", resp.StatusCode), errors.CategoryOperation).
			WithCode(resp.StatusCode).
			WithMetadata(map[string]any{
				"method":     req.Method,
				"url":        req.URL.String(),
				"status":     resp.StatusCode,
				"request_id": requestID,
				"detail":     detailMessage(body, ""),
			})
	}

	if out == nil || len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to decode response").
			WithMetadata(map[string]any{"url": req.URL.String()})
	}

	return nil
}

// detailMessage extracts the backend's {"detail": ...} error body.
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
	fmt.Printf("[ERR] API "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] API "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] API "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] API "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
