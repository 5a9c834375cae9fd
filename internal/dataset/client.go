package dataset

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// Fetch errors.
var (
	// ErrCircuitOpen is returned when the bundle endpoint circuit breaker is open.
	ErrCircuitOpen = errors.New("bundle endpoint circuit breaker is open")
)

// ClientConfig holds configuration for the bundle fetch client.
type ClientConfig struct {
	// URL is the bundle endpoint published by the analyzer.
	URL string

	// Timeout is the request timeout for individual HTTP calls.
	// Default: 30 seconds (bundles are multi-megabyte).
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts.
	// Default: 3
	MaxRetries uint64

	// InitialInterval is the initial retry backoff interval.
	// Default: 500ms
	InitialInterval time.Duration

	// MaxInterval is the maximum retry backoff interval.
	// Default: 10 seconds
	MaxInterval time.Duration

	// BreakerTimeout is the period of open state before half-open retry.
	// Default: 60 seconds
	BreakerTimeout time.Duration
}

// Client fetches dataset bundles over HTTP with retry and circuit breaker
// protection. A fetch failure never discards the previously loaded snapshot;
// callers keep serving the old one.
type Client struct {
	httpClient     *http.Client
	circuitBreaker *gobreaker.CircuitBreaker[*Bundle]
	config         ClientConfig
}

// NewClient creates a new bundle fetch client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 10 * time.Second
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 60 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[*Bundle](gobreaker.Settings{
		Name:    "dataset-bundle",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
	})

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		circuitBreaker: cb,
		config:         cfg,
	}
}

// Fetch downloads, decodes, and validates the bundle. Transient failures
// (network errors, 5xx) are retried with exponential backoff; a malformed
// bundle is permanent and fails immediately.
func (c *Client) Fetch(ctx context.Context) (*Bundle, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0 // retries bounded by WithMaxRetries below

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var bundle *Bundle

	operation := func() error {
		b, err := c.circuitBreaker.Execute(func() (*Bundle, error) {
			return c.fetchOnce(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			var badBundle *BundleError
			if errors.As(err, &badBundle) {
				return backoff.Permanent(err)
			}
			return err
		}
		bundle = b
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return bundle, nil
}

// fetchOnce performs a single fetch attempt.
func (c *Client) fetchOnce(ctx context.Context) (*Bundle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build bundle request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bundle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ServerError{StatusCode: resp.StatusCode}
	}

	b, err := DecodeBundle(resp.Body)
	if err != nil {
		// A bundle that decodes or validates badly will not improve on retry.
		return nil, &BundleError{Err: err}
	}
	return b, nil
}

// CircuitBreakerState returns the current state of the circuit breaker.
func (c *Client) CircuitBreakerState() gobreaker.State {
	return c.circuitBreaker.State()
}

// ServerError represents a non-200 response from the bundle endpoint.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "bundle endpoint error: " + http.StatusText(e.StatusCode)
}

// BundleError wraps a decode or validation failure of a fetched bundle.
type BundleError struct {
	Err error
}

func (e *BundleError) Error() string {
	return "bad bundle: " + e.Err.Error()
}

func (e *BundleError) Unwrap() error {
	return e.Err
}
