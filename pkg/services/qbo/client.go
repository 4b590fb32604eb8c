package qbo

import (
	"context"
	"sync"
	"time"

	"cnstrct-hq/relay/pkg/encode"
	"cnstrct-hq/relay/pkg/proxy/types"
	"cnstrct-hq/relay/pkg/route"
	"cnstrct-hq/relay/pkg/services"
)

// Config contains the QuickBooks adapter's settings.
type Config struct {
	// ClientID and ClientSecret are the QuickBooks app credentials used
	// for OAuth token operations when the request carries none.
	ClientID     string
	ClientSecret string

	// Timeout is the per-call ceiling. Default: 30s.
	Timeout time.Duration

	// MaxRetries re-attempts network-level failures. Default: 0.
	MaxRetries int
}

// Client forwards proxied operations to QuickBooks Online.
type Client struct {
	http  *services.HTTPClient
	table *route.Table

	mu           sync.RWMutex
	clientID     string
	clientSecret string
}

// New creates a QuickBooks adapter against the given routing table.
func New(cfg Config, table *route.Table) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		http:         services.NewHTTPClient(route.ServiceQBO, cfg.Timeout, cfg.MaxRetries),
		table:        table,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
	}
}

// Name returns the service name.
func (c *Client) Name() string {
	return route.ServiceQBO
}

// Health returns the upstream reachability snapshot.
func (c *Client) Health() services.HealthState {
	return c.http.Health()
}

// HasDefaultClientCredentials reports whether app credentials are
// configured server-side.
func (c *Client) HasDefaultClientCredentials() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientID != "" && c.clientSecret != ""
}

// SetClientCredentials swaps the app credentials, e.g. after a config
// reload.
func (c *Client) SetClientCredentials(clientID, clientSecret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clientID = clientID
	c.clientSecret = clientSecret
}

// Close releases the adapter's connections.
func (c *Client) Close() error {
	return c.http.Close()
}

// DataOperation executes one company data call. The "query" endpoint is
// special: its SQL-ish statement travels as a query parameter and the
// request carries no body regardless of method.
func (c *Client) DataOperation(ctx context.Context, req *types.QBODataRequest) (*services.Result, error) {
	wc, err := c.table.Resolve(route.Request{
		Service:  route.ServiceQBO,
		Endpoint: req.Endpoint,
		Method:   req.Method,
		Token:    req.AccessToken,
		RealmID:  req.RealmID,
	})
	if err != nil {
		return nil, err
	}

	var body []byte
	var contentType string

	switch wc.Encoding {
	case route.EncodingSQLQuery:
		query, err := encode.SQLQuery(req.Data)
		if err != nil {
			return nil, &services.ValidationError{Field: "data", Message: err.Error()}
		}
		if query != "" {
			wc.URL += "?" + query
		}
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
	return normalizeData(out)
}
