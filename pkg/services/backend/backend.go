// Package backend forwards dashboard calls to the hosted platform API with
// the caller's bearer token attached. Unlike the Stripe and QuickBooks
// adapters it does no payload re-encoding: JSON in, JSON out.
package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"cnstrct-hq/relay/pkg/encode"
	"cnstrct-hq/relay/pkg/proxy/types"
	"cnstrct-hq/relay/pkg/route"
	"cnstrct-hq/relay/pkg/services"
)

// Config contains the backend adapter's settings.
type Config struct {
	// Timeout is the per-call ceiling. Default: 10s.
	Timeout time.Duration

	// MaxRetries re-attempts network-level failures. Default: 0.
	MaxRetries int
}

// Client forwards proxied operations to the hosted backend.
type Client struct {
	http  *services.HTTPClient
	table *route.Table
}

// New creates a backend adapter against the given routing table.
func New(cfg Config, table *route.Table) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		http:  services.NewHTTPClient(route.ServiceBackend, cfg.Timeout, cfg.MaxRetries),
		table: table,
	}
}

// Name returns the service name.
func (c *Client) Name() string {
	return route.ServiceBackend
}

// Health returns the upstream reachability snapshot.
func (c *Client) Health() services.HealthState {
	return c.http.Health()
}

// Close releases the adapter's connections.
func (c *Client) Close() error {
	return c.http.Close()
}

// Forward executes one proxied backend call.
func (c *Client) Forward(ctx context.Context, req *types.BackendProxyRequest) (*services.Result, error) {
	wc, err := c.table.Resolve(route.Request{
		Service:  route.ServiceBackend,
		Endpoint: req.Endpoint,
		Method:   req.Method,
		Token:    req.AccessToken,
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
	case route.EncodingJSON:
		if len(req.Data) > 0 {
			body = req.Data
			contentType = "application/json"
		}
	}

	out, err := c.http.Do(ctx, wc, body, contentType)
	if err != nil {
		return nil, err
	}
	return normalize(out)
}

// backendErrorBody is the hosted platform's error shape.
type backendErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// normalize maps a backend response onto the uniform result/error shape.
// The backend has no service-specific error taxonomy: a 401 is an
// authentication failure, everything else mirrors through.
func normalize(out *services.Outcome) (*services.Result, error) {
	if out.StatusCode >= 200 && out.StatusCode < 300 {
		return &services.Result{StatusCode: out.StatusCode, Data: out.Body}, nil
	}

	var parsed backendErrorBody
	_ = json.Unmarshal(out.Body, &parsed)
	message := parsed.Message
	if message == "" {
		message = parsed.Error
	}
	if message == "" {
		message = http.StatusText(out.StatusCode)
	}

	if out.StatusCode == http.StatusUnauthorized {
		return nil, &services.UpstreamError{
			Service:    route.ServiceBackend,
			Kind:       services.KindAuthentication,
			StatusCode: http.StatusUnauthorized,
			Type:       parsed.Error,
			Message:    message,
			ConfigHelp: "The backend session token may be expired; sign in again.",
			Details:    out.Body,
		}
	}

	return nil, &services.UpstreamError{
		Service:    route.ServiceBackend,
		Kind:       services.KindUpstream,
		StatusCode: out.StatusCode,
		Type:       parsed.Error,
		Message:    message,
		Details:    out.Body,
	}
}
