// Package backend is the HTTP client for the CityFeedback REST backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/ports"
	"github.com/cityfeedback/portal/internal/metrics"
)

// AdminIDHeader carries the acting administrator's id. The backend treats it
// as advisory.
const AdminIDHeader = "X-Admin-Id"

const maxErrorBody = 4 << 10

// Error is returned for every failed backend call. StatusCode is zero when no
// response arrived.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	cause      error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode == 0 && e.cause != nil:
		return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.cause)
	case e.Message != "":
		return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s: backend returned %d", e.Op, e.StatusCode)
	}
}

// Is matches the domain sentinels: any non-2xx answer is ErrRejected, 404 is
// also ErrNotFound, 403 also ErrForbidden, and a missing response is
// ErrBackendUnreachable.
func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrBackendUnreachable:
		return e.StatusCode == 0
	case domain.ErrRejected:
		return e.StatusCode != 0
	case domain.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case domain.ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	}
	return false
}

func (e *Error) Unwrap() error { return e.cause }

// UserMessage returns the backend's own explanation, if it sent one.
func (e *Error) UserMessage() string { return e.Message }

// Client talks to the backend. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

var _ ports.Backend = (*Client)(nil)

// New returns a client for baseURL. A zero timeout waits indefinitely.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "backend").Logger(),
	}
}

type call struct {
	op      string
	method  string
	route   string // metrics label, e.g. "/feedback/:id"
	path    string
	adminID string
	body    any
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	var rdr io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", cl.op, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, rdr)
	if err != nil {
		return fmt.Errorf("%s: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.adminID != "" {
		req.Header.Set(AdminIDHeader, cl.adminID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(cl.route).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(cl.route, cl.method, "unreachable").Inc()
		c.log.Warn().Err(err).Str("op", cl.op).Msg("backend unreachable")
		return &Error{Op: cl.op, cause: err}
	}
	defer resp.Body.Close()

	metrics.BackendRequestsTotal.WithLabelValues(cl.route, cl.method, strconv.Itoa(resp.StatusCode)).Inc()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Debug().Str("op", cl.op).Int("status", resp.StatusCode).Msg("backend rejected request")
		return &Error{Op: cl.op, StatusCode: resp.StatusCode, Message: errorText(raw)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", cl.op, err)
	}
	return nil
}

// errorText extracts a message from an error body. Plain text is used as is;
// JSON bodies contribute their "message" or "error" field.
func errorText(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(text, "{") {
		return text
	}
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return text
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}

func feedbackPath(id int64, suffix string) string {
	return "/feedback/" + strconv.FormatInt(id, 10) + suffix
}

func userPath(id, suffix string) string {
	return "/user/" + url.PathEscape(id) + suffix
}

// Ping checks that the backend answers at all.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, call{op: "ping", method: http.MethodGet, route: "/feedback/public", path: "/feedback/public"}, nil)
}
