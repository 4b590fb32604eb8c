package stripe

import (
	"context"
	"net/http"
	"sync"
	"time"

	"cnstrct-hq/relay/pkg/encode"
	"cnstrct-hq/relay/pkg/proxy/types"
	"cnstrct-hq/relay/pkg/route"
	"cnstrct-hq/relay/pkg/services"
)

// Config contains the Stripe adapter's settings.
type Config struct {
	// DefaultSecretKey is the server-side fallback used when a request
	// does not carry its own key. Optional.
	DefaultSecretKey string

	// Timeout is the per-call ceiling. Default: 20s.
	Timeout time.Duration

	// MaxRetries re-attempts network-level failures. Default: 0.
	MaxRetries int
}

// Client forwards proxied operations to Stripe.
type Client struct {
	http  *services.HTTPClient
	table *route.Table

	mu         sync.RWMutex
	defaultKey string
}

// New creates a Stripe adapter against the given routing table.
func New(cfg Config, table *route.Table) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Client{
		http:       services.NewHTTPClient(route.ServiceStripe, cfg.Timeout, cfg.MaxRetries),
		table:      table,
		defaultKey: cfg.DefaultSecretKey,
	}
}

// Name returns the service name.
func (c *Client) Name() string {
	return route.ServiceStripe
}

// Health returns the upstream reachability snapshot.
func (c *Client) Health() services.HealthState {
	return c.http.Health()
}

// HasDefaultKey reports whether a server-side fallback key is configured.
// Boundary validation uses this to decide if a per-request key is required.
func (c *Client) HasDefaultKey() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultKey != ""
}

// SetDefaultKey swaps the fallback key, e.g. after a config reload.
func (c *Client) SetDefaultKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultKey = key
}

// Close releases the adapter's connections.
func (c *Client) Close() error {
	return c.http.Close()
}

// Forward executes one proxied Stripe operation: resolve, encode, call,
// normalize. Exactly one wire call per invocation; nothing is retried on an
// upstream status and nothing is cached.
func (c *Client) Forward(ctx context.Context, req *types.StripeProxyRequest) (*services.Result, error) {
	key := req.Key()
	if key == "" {
		c.mu.RLock()
		key = c.defaultKey
		c.mu.RUnlock()
	}
	if key == "" {
		return nil, &services.ValidationError{
			Field:   "accessToken",
			Message: "a Stripe secret key is required",
		}
	}

	wc, err := c.table.Resolve(route.Request{
		Service:        route.ServiceStripe,
		Endpoint:       req.Endpoint,
		Method:         req.Method,
		Token:          key,
		AccountContext: req.AccountID,
	})
	if err != nil {
		return nil, err
	}

	var body []byte
	var contentType string

	switch wc.Encoding {
	case route.EncodingQuery:
		query, err := encode.Query(req.Data)
		if err != nil {
			return nil, &services.ValidationError{Field: "data", Message: err.Error()}
		}
		if query != "" {
			wc.URL += "?" + query
		}
	case route.EncodingForm:
		form, err := encode.Form(req.Data)
		if err != nil {
			return nil, &services.ValidationError{Field: "data", Message: err.Error()}
		}
		body = []byte(form)
		contentType = "application/x-www-form-urlencoded"
	}

	out, err := c.http.Do(ctx, wc, body, contentType)
	if err != nil {
		return nil, err
	}
	return normalize(out)
}

// normalize maps a Stripe response onto the uniform result/error shape.
func normalize(out *services.Outcome) (*services.Result, error) {
	if out.StatusCode >= 200 && out.StatusCode < 300 {
		return &services.Result{StatusCode: out.StatusCode, Data: out.Body}, nil
	}

	upstreamType, message := parseError(out.Body)

	switch {
	case upstreamType == "StripeAuthenticationError" ||
		upstreamType == "authentication_error" ||
		out.StatusCode == http.StatusUnauthorized:
		if message == "" {
			message = "Invalid API key provided"
		}
		return nil, &services.UpstreamError{
			Service:    route.ServiceStripe,
			Kind:       services.KindAuthentication,
			StatusCode: http.StatusUnauthorized,
			Type:       "StripeAuthenticationError",
			Message:    message,
			ConfigHelp: "Verify the configured Stripe secret key matches your account and mode (test vs live).",
			Details:    out.Body,
		}

	case upstreamType == "StripeConnectionError" ||
		upstreamType == "api_connection_error":
		if message == "" {
			message = "Stripe is unreachable"
		}
		return nil, &services.UpstreamError{
			Service:    route.ServiceStripe,
			Kind:       services.KindConnection,
			StatusCode: http.StatusServiceUnavailable,
			Type:       "StripeConnectionError",
			Message:    message,
			Details:    out.Body,
		}

	default:
		if message == "" {
			message = http.StatusText(out.StatusCode)
		}
		return nil, &services.UpstreamError{
			Service:    route.ServiceStripe,
			Kind:       services.KindUpstream,
			StatusCode: out.StatusCode,
			Type:       upstreamType,
			Message:    message,
			Details:    out.Body,
		}
	}
}
