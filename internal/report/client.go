// Package report submits SQL to a BIP-style report endpoint: a single HTTP
// POST carrying the Base64-encoded statement, answered with CSV text.
package report

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/repsql/repsql/internal/connection"
)

// ValidationError indicates the submitted text was rejected before any
// request was made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid query: %s", e.Reason)
}

// NetworkError indicates the request could not be completed, either at the
// transport level or because the endpoint answered with a non-success status.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

type payload struct {
	SQL string `json:"sql"`
}

// Client executes report queries. The zero http.Client carries no timeout;
// a hung endpoint blocks until the context is done or the transport fails.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a report client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate trims sqlText and checks that it starts with the SELECT keyword,
// case-insensitively. No further SQL parsing is done.
func Validate(sqlText string) (string, error) {
	trimmed := strings.TrimSpace(sqlText)
	const keyword = "select"
	if len(trimmed) < len(keyword) || !strings.EqualFold(trimmed[:len(keyword)], keyword) {
		return "", &ValidationError{Reason: "statement must start with SELECT"}
	}
	// The keyword must end there: "select*from t" is a SELECT, "selected" is not.
	if len(trimmed) > len(keyword) && isIdentByte(trimmed[len(keyword)]) {
		return "", &ValidationError{Reason: "statement must start with SELECT"}
	}
	return trimmed, nil
}

func isIdentByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// Encode returns the wire form of a SQL statement: Base64 over its UTF-8
// bytes. This is an encoding the endpoint expects, not a security measure.
func Encode(sqlText string) string {
	return base64.StdEncoding.EncodeToString([]byte(sqlText))
}

// Decode reverses Encode.
func Decode(encoded string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Execute validates sqlText, posts it to the connection's endpoint with Basic
// auth, and returns the whole response body as CSV text. The body is read
// into one buffer; there is no streaming, size cap, or retry.
func (c *Client) Execute(ctx context.Context, conn connection.Connection, sqlText string) (string, error) {
	validated, err := Validate(sqlText)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(payload{SQL: Encode(validated)})
	if err != nil {
		return "", fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, conn.URL, bytes.NewReader(body))
	if err != nil {
		return "", &NetworkError{URL: conn.URL, Err: err}
	}
	req.SetBasicAuth(conn.Username, conn.Password)
	req.Header.Set("Content-Type", "application/json")

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("executing report query",
		"connection", conn.Name,
		"url", conn.URL,
		"request_id", requestID,
		"sql_bytes", len(validated))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &NetworkError{URL: conn.URL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{URL: conn.URL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &NetworkError{
			URL: conn.URL,
			Err: fmt.Errorf("endpoint returned %s", resp.Status),
		}
	}

	c.logger.Debug("report query completed",
		"request_id", requestID,
		"status", resp.StatusCode,
		"response_bytes", len(data))

	return string(data), nil
}
