package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

// Config configures retries for outbound calls.
type Config struct {
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration

	// NonIdempotent limits retries to 429 responses and failures to connect.
	// Other errors and 5xx responses may come after the server acted, so they
	// are returned to the caller untouched.
	NonIdempotent bool
}

// DefaultConfig returns sensible defaults for third-party API calls.
func DefaultConfig() Config {
	return Config{
		Timeout:    15 * time.Second,
		MaxRetries: 3,
		BaseDelay:  200 * time.Millisecond,
		MaxDelay:   5 * time.Second,
	}
}

// StatusError is returned for responses that were retried and still failed.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client wraps an http.Client with a retry policy.
type Client struct {
	http          *http.Client
	executor      failsafe.Executor[*http.Response]
	nonIdempotent bool
}

// New creates a Client. Zero fields in cfg take their DefaultConfig values.
//
//nolint:bodyclose // *http.Response is a type parameter here
func New(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.MaxDelay < cfg.BaseDelay {
		cfg.MaxDelay = cfg.BaseDelay
	}

	policy := retrypolicy.NewBuilder[*http.Response]().
		HandleIf(func(_ *http.Response, err error) bool {
			if cfg.NonIdempotent && !isRateLimited(err) && !isDialError(err) {
				return false
			}
			return shouldRetry(err)
		}).
		WithBackoff(cfg.BaseDelay, cfg.MaxDelay).
		WithMaxRetries(cfg.MaxRetries).
		WithJitterFactor(0.1).
		Build()

	return &Client{
		http:          &http.Client{Timeout: cfg.Timeout},
		executor:      failsafe.With[*http.Response](policy),
		nonIdempotent: cfg.NonIdempotent,
	}
}

// Do sends the request produced by build, rebuilding it for every attempt.
// Network errors, 5xx and 429 responses are retried unless the client is
// NonIdempotent. Other responses are returned to the caller, who must close the body.
func (c *Client) Do(ctx context.Context, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	return c.executor.WithContext(ctx).Get(func() (*http.Response, error) {
		req, err := build(ctx)
		if err != nil {
			return nil, &permanentError{err: err}
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		retryable := resp.StatusCode == http.StatusTooManyRequests ||
			(!c.nonIdempotent && resp.StatusCode >= http.StatusInternalServerError)
		if retryable {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			_ = resp.Body.Close()
			return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		}
		return resp, nil
	})
}

// ReadError drains a non-2xx response into a StatusError.
func ReadError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	var perm *permanentError
	if errors.As(err, &perm) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

func isRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests
}

// isDialError reports a failure to establish the connection, before anything was sent.
func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
