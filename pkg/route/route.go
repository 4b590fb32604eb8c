package route

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// Environment selects between upstream sandbox and production hosts.
// It is an explicit deployment flag; the proxy never infers it from
// hostnames.
type Environment string

const (
	// EnvSandbox routes QuickBooks traffic to the sandbox host.
	EnvSandbox Environment = "sandbox"

	// EnvProduction routes QuickBooks traffic to the production host.
	EnvProduction Environment = "production"
)

// Encoding tells the caller how the request payload must be serialized for
// the resolved operation.
type Encoding int

const (
	// EncodingQuery renders the payload as URL query parameters (GET).
	EncodingQuery Encoding = iota

	// EncodingForm renders the payload as form-urlencoded bracket notation.
	EncodingForm

	// EncodingJSON forwards the payload as a JSON body.
	EncodingJSON

	// EncodingSQLQuery lifts the payload's "query" field into a single
	// query parameter (the QuickBooks query endpoint).
	EncodingSQLQuery
)

// Service names accepted by Resolve.
const (
	ServiceStripe  = "stripe"
	ServiceQBO     = "qbo"
	ServiceBackend = "backend"
)

// Default upstream endpoints. All of them are overridable through Config so
// tests can point the table at a local server.
const (
	DefaultStripeBaseURL        = "https://api.stripe.com/v1"
	DefaultStripeAPIVersion     = "2023-10-16"
	DefaultQBOSandboxBaseURL    = "https://sandbox-quickbooks.api.intuit.com"
	DefaultQBOProductionBaseURL = "https://quickbooks.api.intuit.com"
	DefaultQBOOAuthURL          = "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"
)

// Config contains the routing table's environment-dependent settings.
type Config struct {
	// Environment selects sandbox or production upstream hosts.
	// Default: sandbox. Production must be opted into explicitly.
	Environment Environment

	// StripeBaseURL overrides the Stripe API base URL.
	StripeBaseURL string

	// StripeAPIVersion is pinned on every Stripe call via the
	// Stripe-Version header for wire stability.
	StripeAPIVersion string

	// QBOSandboxBaseURL and QBOProductionBaseURL override the QuickBooks
	// company data hosts.
	QBOSandboxBaseURL    string
	QBOProductionBaseURL string

	// QBOOAuthURL overrides the QuickBooks OAuth token endpoint.
	QBOOAuthURL string

	// BackendBaseURL is the hosted backend platform the dashboard talks to.
	BackendBaseURL string
}

// Request is the abstract resource operation to resolve.
type Request struct {
	// Service is one of ServiceStripe, ServiceQBO, ServiceBackend.
	Service string

	// Endpoint is the slash-delimited resource path, e.g.
	// "payment_intents" or "accounts/acct_123/login_links".
	Endpoint string

	// Method is the HTTP verb, lowercase or uppercase.
	Method string

	// Token is the caller-supplied credential attached as bearer auth.
	Token string

	// AccountContext, when set on a Stripe request, adds the
	// Stripe-Account header (Connect on-behalf-of semantics).
	AccountContext string

	// RealmID is the QuickBooks company ID templated into the data path.
	RealmID string
}

// WireCall is the resolved third-party operation. It is owned exclusively by
// the request that produced it.
type WireCall struct {
	Service  string
	Method   string
	URL      string
	Header   http.Header
	Encoding Encoding
}

// OAuthOperation names the two QuickBooks OAuth operations that bypass the
// service table.
type OAuthOperation string

const (
	// OAuthToken exchanges an authorization code for tokens.
	OAuthToken OAuthOperation = "token"

	// OAuthRefresh refreshes an access token.
	OAuthRefresh OAuthOperation = "refresh"
)

// UnsupportedOperationError reports a (service, endpoint, method) triple the
// table cannot map. It is terminal: the caller must not retry and no wire
// call was issued.
type UnsupportedOperationError struct {
	Service  string
	Endpoint string
	Method   string
}

// Error implements the error interface.
func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation: service=%q endpoint=%q method=%q",
		e.Service, e.Endpoint, e.Method)
}

// descriptor captures everything that differs between services as data.
type descriptor struct {
	url  func(t *Table, req Request) (string, error)
	auth func(req Request) http.Header
	enc  func(req Request, method string) Encoding
}

// Table resolves abstract operations against its service descriptors.
// A Table is immutable after construction and safe for concurrent use.
type Table struct {
	cfg      Config
	services map[string]descriptor
}

// NewTable builds a routing table, filling unset config fields with the
// public upstream defaults.
func NewTable(cfg Config) *Table {
	if cfg.Environment == "" {
		cfg.Environment = EnvSandbox
	}
	if cfg.StripeBaseURL == "" {
		cfg.StripeBaseURL = DefaultStripeBaseURL
	}
	if cfg.StripeAPIVersion == "" {
		cfg.StripeAPIVersion = DefaultStripeAPIVersion
	}
	if cfg.QBOSandboxBaseURL == "" {
		cfg.QBOSandboxBaseURL = DefaultQBOSandboxBaseURL
	}
	if cfg.QBOProductionBaseURL == "" {
		cfg.QBOProductionBaseURL = DefaultQBOProductionBaseURL
	}
	if cfg.QBOOAuthURL == "" {
		cfg.QBOOAuthURL = DefaultQBOOAuthURL
	}

	t := &Table{cfg: cfg}
	t.services = map[string]descriptor{
		ServiceStripe: {
			url: func(t *Table, req Request) (string, error) {
				return t.cfg.StripeBaseURL + "/" + req.Endpoint, nil
			},
			auth: func(req Request) http.Header {
				h := bearerHeader(req.Token)
				h.Set("Stripe-Version", t.cfg.StripeAPIVersion)
				if req.AccountContext != "" {
					h.Set("Stripe-Account", req.AccountContext)
				}
				return h
			},
			enc: func(req Request, method string) Encoding {
				if method == http.MethodGet {
					return EncodingQuery
				}
				return EncodingForm
			},
		},
		ServiceQBO: {
			url: func(t *Table, req Request) (string, error) {
				if req.RealmID == "" {
					return "", fmt.Errorf("qbo operation requires a realm ID")
				}
				return fmt.Sprintf("%s/v3/company/%s/%s",
					t.qboBaseURL(), req.RealmID, req.Endpoint), nil
			},
			auth: func(req Request) http.Header {
				h := bearerHeader(req.Token)
				h.Set("Accept", "application/json")
				return h
			},
			enc: func(req Request, method string) Encoding {
				if req.Endpoint == "query" || strings.HasPrefix(req.Endpoint, "query/") {
					return EncodingSQLQuery
				}
				if method == http.MethodGet {
					return EncodingQuery
				}
				return EncodingJSON
			},
		},
		ServiceBackend: {
			url: func(t *Table, req Request) (string, error) {
				if t.cfg.BackendBaseURL == "" {
					return "", fmt.Errorf("backend base URL is not configured")
				}
				return strings.TrimSuffix(t.cfg.BackendBaseURL, "/") + "/" + req.Endpoint, nil
			},
			auth: func(req Request) http.Header {
				return bearerHeader(req.Token)
			},
			enc: func(req Request, method string) Encoding {
				if method == http.MethodGet {
					return EncodingQuery
				}
				return EncodingJSON
			},
		},
	}
	return t
}

// Resolve maps an abstract operation to a wire call. It performs no I/O and
// has no side effects; a failure means no upstream request may be attempted.
func (t *Table) Resolve(req Request) (*WireCall, error) {
	desc, ok := t.services[req.Service]
	if !ok {
		return nil, &UnsupportedOperationError{
			Service: req.Service, Endpoint: req.Endpoint, Method: req.Method,
		}
	}

	method, ok := normalizeMethod(req.Method)
	if !ok {
		return nil, &UnsupportedOperationError{
			Service: req.Service, Endpoint: req.Endpoint, Method: req.Method,
		}
	}

	endpoint, ok := normalizeEndpoint(req.Endpoint)
	if !ok {
		return nil, &UnsupportedOperationError{
			Service: req.Service, Endpoint: req.Endpoint, Method: req.Method,
		}
	}
	req.Endpoint = endpoint

	url, err := desc.url(t, req)
	if err != nil {
		return nil, err
	}

	return &WireCall{
		Service:  req.Service,
		Method:   method,
		URL:      url,
		Header:   desc.auth(req),
		Encoding: desc.enc(req, method),
	}, nil
}

// ResolveOAuth resolves the QuickBooks token-exchange and refresh
// operations. These never go through the service table: the endpoint is
// fixed and the credential is HTTP Basic auth built from the OAuth client
// pair, not a bearer token.
func (t *Table) ResolveOAuth(op OAuthOperation, clientID, clientSecret string) (*WireCall, error) {
	switch op {
	case OAuthToken, OAuthRefresh:
	default:
		return nil, &UnsupportedOperationError{
			Service: ServiceQBO, Endpoint: string(op), Method: http.MethodPost,
		}
	}
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("qbo oauth %s requires client credentials", op)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(clientID + ":" + clientSecret))
	h := http.Header{}
	h.Set("Authorization", "Basic "+basic)
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/x-www-form-urlencoded")

	return &WireCall{
		Service:  ServiceQBO,
		Method:   http.MethodPost,
		URL:      t.cfg.QBOOAuthURL,
		Header:   h,
		Encoding: EncodingForm,
	}, nil
}

// Environment reports the table's configured environment.
func (t *Table) Environment() Environment {
	return t.cfg.Environment
}

// qboBaseURL picks the QuickBooks host for the configured environment.
func (t *Table) qboBaseURL() string {
	if t.cfg.Environment == EnvProduction {
		return t.cfg.QBOProductionBaseURL
	}
	return t.cfg.QBOSandboxBaseURL
}

// normalizeMethod maps the caller's verb onto a canonical http.Method*
// constant. Only the four verbs the dashboard uses are supported.
func normalizeMethod(method string) (string, bool) {
	switch strings.ToLower(method) {
	case "get":
		return http.MethodGet, true
	case "post", "":
		// The original dashboard omits the method on create calls.
		return http.MethodPost, true
	case "put":
		return http.MethodPut, true
	case "delete":
		return http.MethodDelete, true
	default:
		return "", false
	}
}

// normalizeEndpoint trims a leading slash and rejects paths that could
// escape the service's base URL.
func normalizeEndpoint(endpoint string) (string, bool) {
	endpoint = strings.TrimPrefix(endpoint, "/")
	if endpoint == "" {
		return "", false
	}
	if strings.Contains(endpoint, "://") || strings.Contains(endpoint, "..") {
		return "", false
	}
	return endpoint, true
}

func bearerHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
