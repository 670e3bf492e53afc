package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/worklog-dashboard/internal/source"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	maxBackoff        = 30 * time.Second
)

// Client is a thin HTTP client for the Jira Cloud REST API v3.
// It authenticates with an account email and API token, and retries
// rate-limited and network-failed requests with exponential backoff.
type Client struct {
	baseURL    string
	email      string
	token      string
	httpClient *http.Client
	maxRetries int
	backoff    func(attempt int) time.Duration
	log        zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithBackoff overrides the wait between retries when the server gives
// no Retry-After hint.
func WithBackoff(fn func(attempt int) time.Duration) Option {
	return func(c *Client) { c.backoff = fn }
}

// NewClient creates a Jira client. baseURL is the site root, see
// BaseURLForDomain.
func NewClient(baseURL, email, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		email:   email,
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		maxRetries: defaultMaxRetries,
		backoff:    exponentialBackoff,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURLForDomain turns a configured site name into a base URL.
// "acme", "acme.atlassian.net" and "https://acme.atlassian.net" all map to
// https://acme.atlassian.net; other http(s) URLs are used verbatim.
func BaseURLForDomain(domain string) string {
	d := strings.TrimRight(strings.TrimSpace(domain), "/")
	if strings.HasPrefix(d, "http://") || strings.HasPrefix(d, "https://") {
		return d
	}
	d = strings.TrimSuffix(d, ".atlassian.net")
	return "https://" + d + ".atlassian.net"
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		wait, err := c.try(ctx, path, result, attempt)
		if err == nil {
			return nil
		}
		if wait < 0 {
			return err
		}

		lastErr = err
		if attempt == c.maxRetries {
			break
		}

		c.log.Debug().
			Err(err).
			Str("path", path).
			Int("attempt", attempt+1).
			Dur("wait", wait).
			Msg("retrying jira request")

		select {
		case <-ctx.Done():
			return contextError(ctx.Err())
		case <-time.After(wait):
		}
	}

	return lastErr
}

// try performs a single request. A non-negative wait means the failure
// is retryable after that duration; -1 means give up.
func (c *Client) try(
	ctx context.Context,
	path string,
	result any,
	attempt int,
) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return -1, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return -1, contextError(ctx.Err())
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return -1, &source.Error{
				Code:    source.CodeTimeout,
				Message: "Request timed out after 30 seconds.",
				Err:     err,
			}
		}
		return c.backoff(attempt), &source.Error{
			Code:    source.CodeNetworkError,
			Message: "Network error: " + err.Error(),
			Err:     err,
		}
	}

	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return c.backoff(attempt), &source.Error{
			Code:    source.CodeNetworkError,
			Message: "Network error: " + readErr.Error(),
			Err:     readErr,
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return -1, &source.Error{
			Code:    source.CodeAuthFailed,
			Status:  resp.StatusCode,
			Message: "Authentication failed. Check your domain, email, and API token.",
		}

	case resp.StatusCode == http.StatusTooManyRequests:
		return retryAfterDuration(resp, c.backoff(attempt)), &source.Error{
			Code:    source.CodeRateLimited,
			Status:  http.StatusTooManyRequests,
			Message: "Jira API rate limit exceeded. Try again later.",
		}

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return -1, &source.Error{
			Code:    source.CodeUnknown,
			Status:  resp.StatusCode,
			Message: statusMessage(resp.StatusCode, body),
		}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return 0, nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return -1, &source.Error{
			Code:    source.CodeUnknown,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Jira API returned a malformed response for %s.", path),
			Err:     err,
		}
	}
	return 0, nil
}

// statusMessage describes an unexpected status, including Jira's own
// error messages when the body carries them.
func statusMessage(status int, body []byte) string {
	msg := fmt.Sprintf("Jira API returned HTTP %d", status)

	var jiraErr ErrorResponse
	if json.Unmarshal(body, &jiraErr) != nil {
		return msg
	}
	details := append([]string(nil), jiraErr.ErrorMessages...)
	for field, text := range jiraErr.Errors {
		details = append(details, field+": "+text)
	}
	if len(details) == 0 {
		return msg
	}
	return msg + ": " + strings.Join(details, "; ")
}

// contextError maps a finished context onto a source error.
func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &source.Error{
			Code:    source.CodeTimeout,
			Message: "Request timed out.",
			Err:     err,
		}
	}
	return err
}

// retryAfterDuration reads the Retry-After header, falling back to the
// given backoff when it is missing or malformed.
func retryAfterDuration(resp *http.Response, fallback time.Duration) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// exponentialBackoff waits 1s, 2s, 4s, ... capped at 30s.
func exponentialBackoff(attempt int) time.Duration {
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	return backoff
}
