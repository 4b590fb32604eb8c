package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"cnstrct-hq/relay/pkg/route"
)

// MaxResponseBodySize caps how much of an upstream response the relay will
// buffer (16MB). QuickBooks report payloads are the largest seen in
// practice and stay well under this.
const MaxResponseBodySize = 16 * 1024 * 1024

// Outcome is the raw upstream response before normalization. Exactly one
// Outcome (or error) exists per wire call.
type Outcome struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Result is a normalized successful outcome: the upstream 2xx body passed
// through unmodified.
type Result struct {
	StatusCode int
	Data       []byte
}

// HealthState is a point-in-time snapshot of an adapter's upstream
// reachability, derived from real traffic rather than synthetic probes.
type HealthState struct {
	Healthy             bool      `json:"healthy"`
	LastCheck           time.Time `json:"last_check"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastError           string    `json:"last_error,omitempty"`
	TotalRequests       uint64    `json:"total_requests"`
	FailedRequests      uint64    `json:"failed_requests"`
}

// HTTPClient is the shared HTTP forwarder under every service adapter. It
// owns the connection pool, the per-call timeout ceiling, the optional
// transport-level retry policy, and reachability tracking.
type HTTPClient struct {
	name       string
	client     *http.Client
	maxRetries int

	mu     sync.RWMutex
	health HealthState
}

// NewHTTPClient creates a forwarder for the named service. timeout is the
// fixed per-call ceiling; maxRetries re-attempts network-level failures only
// (zero disables retrying entirely).
func NewHTTPClient(name string, timeout time.Duration, maxRetries int) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:        32,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPClient{
		name: name,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		maxRetries: maxRetries,
		health: HealthState{
			Healthy:   true, // optimistic until traffic says otherwise
			LastCheck: time.Now(),
		},
	}
}

// Name returns the service name this forwarder fronts.
func (c *HTTPClient) Name() string {
	return c.name
}

// Health returns the current reachability snapshot.
func (c *HTTPClient) Health() HealthState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.health
}

// Do executes a resolved wire call. body may be nil for calls without a
// payload; contentType is only set when a body is present and the wire call
// did not already pin one.
//
// Any received response, success or upstream error, returns an Outcome;
// the adapter's normalizer decides what it means. A nil Outcome with a
// *TransportError means nothing was received. Context cancellation aborts
// the in-flight upstream call; the relay never leaves orphaned sockets
// behind a disconnected caller.
func (c *HTTPClient) Do(ctx context.Context, wc *route.WireCall, body []byte, contentType string) (*Outcome, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * 250 * time.Millisecond
			slog.Debug("retrying upstream call",
				"service", c.name,
				"attempt", attempt,
				"backoff", backoff,
			)
			select {
			case <-ctx.Done():
				c.recordFailure(ctx.Err())
				return nil, &TransportError{Service: c.name, Cause: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, wc.Method, wc.URL, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to build upstream request: %w", err)
		}
		for key, values := range wc.Header {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
		if body != nil && contentType != "" && req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			c.recordFailure(err)

			if ctx.Err() != nil {
				// Caller gone or deadline hit. Not retriable.
				return nil, &TransportError{Service: c.name, Cause: err}
			}
			// Network-level failure. Retry if the policy allows.
			continue
		}

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBodySize))
		resp.Body.Close()
		if err != nil {
			lastErr = err
			c.recordFailure(err)
			continue
		}

		c.recordSuccess()
		return &Outcome{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       respBody,
		}, nil
	}

	return nil, &TransportError{Service: c.name, Cause: lastErr}
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// recordSuccess notes that the upstream produced a response. An upstream
// error status still counts as reachable.
func (c *HTTPClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.health.LastCheck = time.Now()
	c.health.TotalRequests++
	c.health.Healthy = true
	c.health.ConsecutiveFailures = 0
	c.health.LastError = ""
}

// recordFailure notes a transport-level failure. Three consecutive failures
// mark the upstream unreachable for readiness reporting.
func (c *HTTPClient) recordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.health.LastCheck = time.Now()
	c.health.TotalRequests++
	c.health.FailedRequests++
	c.health.ConsecutiveFailures++
	if err != nil {
		c.health.LastError = err.Error()
	}

	if c.health.ConsecutiveFailures >= 3 && c.health.Healthy {
		c.health.Healthy = false
		slog.Warn("upstream marked unreachable",
			"service", c.name,
			"consecutive_failures", c.health.ConsecutiveFailures,
			"error", err,
		)
	}
}
