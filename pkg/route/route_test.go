package route

import (
	"errors"
	"net/http"
	"testing"
)

func TestResolveStripe(t *testing.T) {
	table := NewTable(Config{})

	tests := []struct {
		name         string
		req          Request
		wantURL      string
		wantMethod   string
		wantEncoding Encoding
	}{
		{
			name:         "payment intent create",
			req:          Request{Service: ServiceStripe, Endpoint: "payment_intents", Method: "post", Token: "sk_test_x"},
			wantURL:      "https://api.stripe.com/v1/payment_intents",
			wantMethod:   http.MethodPost,
			wantEncoding: EncodingForm,
		},
		{
			name:         "account list is a query operation",
			req:          Request{Service: ServiceStripe, Endpoint: "accounts", Method: "get", Token: "sk_test_x"},
			wantURL:      "https://api.stripe.com/v1/accounts",
			wantMethod:   http.MethodGet,
			wantEncoding: EncodingQuery,
		},
		{
			name:         "nested resource path",
			req:          Request{Service: ServiceStripe, Endpoint: "accounts/acct_123/login_links", Method: "post", Token: "sk_test_x"},
			wantURL:      "https://api.stripe.com/v1/accounts/acct_123/login_links",
			wantMethod:   http.MethodPost,
			wantEncoding: EncodingForm,
		},
		{
			name:         "missing method defaults to post",
			req:          Request{Service: ServiceStripe, Endpoint: "customers", Token: "sk_test_x"},
			wantURL:      "https://api.stripe.com/v1/customers",
			wantMethod:   http.MethodPost,
			wantEncoding: EncodingForm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wc, err := table.Resolve(tt.req)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if wc.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", wc.URL, tt.wantURL)
			}
			if wc.Method != tt.wantMethod {
				t.Errorf("Method = %q, want %q", wc.Method, tt.wantMethod)
			}
			if wc.Encoding != tt.wantEncoding {
				t.Errorf("Encoding = %v, want %v", wc.Encoding, tt.wantEncoding)
			}
			if got := wc.Header.Get("Authorization"); got != "Bearer sk_test_x" {
				t.Errorf("Authorization = %q", got)
			}
			if got := wc.Header.Get("Stripe-Version"); got != DefaultStripeAPIVersion {
				t.Errorf("Stripe-Version = %q, want %q", got, DefaultStripeAPIVersion)
			}
		})
	}
}

func TestResolveStripeAccountContext(t *testing.T) {
	table := NewTable(Config{})

	wc, err := table.Resolve(Request{
		Service:        ServiceStripe,
		Endpoint:       "payment_intents",
		Method:         "post",
		Token:          "sk_test_x",
		AccountContext: "acct_456",
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := wc.Header.Get("Stripe-Account"); got != "acct_456" {
		t.Errorf("Stripe-Account = %q, want acct_456", got)
	}

	// Without account context the header must be absent.
	wc, err = table.Resolve(Request{
		Service: ServiceStripe, Endpoint: "payment_intents", Method: "post", Token: "sk_test_x",
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := wc.Header.Get("Stripe-Account"); got != "" {
		t.Errorf("Stripe-Account = %q, want empty", got)
	}
}

func TestResolveQBO(t *testing.T) {
	tests := []struct {
		name         string
		env          Environment
		req          Request
		wantURL      string
		wantEncoding Encoding
	}{
		{
			name:         "sandbox data operation",
			env:          EnvSandbox,
			req:          Request{Service: ServiceQBO, Endpoint: "invoice", Method: "post", Token: "tok", RealmID: "123"},
			wantURL:      "https://sandbox-quickbooks.api.intuit.com/v3/company/123/invoice",
			wantEncoding: EncodingJSON,
		},
		{
			name:         "production data operation",
			env:          EnvProduction,
			req:          Request{Service: ServiceQBO, Endpoint: "invoice", Method: "post", Token: "tok", RealmID: "123"},
			wantURL:      "https://quickbooks.api.intuit.com/v3/company/123/invoice",
			wantEncoding: EncodingJSON,
		},
		{
			name:         "query endpoint is special cased",
			env:          EnvSandbox,
			req:          Request{Service: ServiceQBO, Endpoint: "query", Method: "get", Token: "tok", RealmID: "123"},
			wantURL:      "https://sandbox-quickbooks.api.intuit.com/v3/company/123/query",
			wantEncoding: EncodingSQLQuery,
		},
		{
			name:         "get reads use query encoding",
			env:          EnvSandbox,
			req:          Request{Service: ServiceQBO, Endpoint: "invoice/42", Method: "get", Token: "tok", RealmID: "123"},
			wantURL:      "https://sandbox-quickbooks.api.intuit.com/v3/company/123/invoice/42",
			wantEncoding: EncodingQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable(Config{Environment: tt.env})
			wc, err := table.Resolve(tt.req)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if wc.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", wc.URL, tt.wantURL)
			}
			if wc.Encoding != tt.wantEncoding {
				t.Errorf("Encoding = %v, want %v", wc.Encoding, tt.wantEncoding)
			}
		})
	}
}

func TestResolveQBOMissingRealm(t *testing.T) {
	table := NewTable(Config{})
	_, err := table.Resolve(Request{Service: ServiceQBO, Endpoint: "invoice", Method: "post", Token: "tok"})
	if err == nil {
		t.Fatal("Resolve() expected error for missing realm ID")
	}
}

func TestResolveBackend(t *testing.T) {
	table := NewTable(Config{BackendBaseURL: "https://backend.example.com/rest/v1/"})

	wc, err := table.Resolve(Request{
		Service: ServiceBackend, Endpoint: "projects", Method: "get", Token: "jwt-token",
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if wc.URL != "https://backend.example.com/rest/v1/projects" {
		t.Errorf("URL = %q", wc.URL)
	}
	if got := wc.Header.Get("Authorization"); got != "Bearer jwt-token" {
		t.Errorf("Authorization = %q", got)
	}

	// Unconfigured backend base URL is an error, not a panic.
	table = NewTable(Config{})
	if _, err := table.Resolve(Request{Service: ServiceBackend, Endpoint: "projects", Method: "get"}); err == nil {
		t.Error("Resolve() expected error without backend base URL")
	}
}

func TestResolveUnsupported(t *testing.T) {
	table := NewTable(Config{BackendBaseURL: "https://backend.example.com"})

	tests := []struct {
		name string
		req  Request
	}{
		{"unknown service", Request{Service: "fax", Endpoint: "send", Method: "post"}},
		{"unsupported verb", Request{Service: ServiceStripe, Endpoint: "accounts", Method: "patch"}},
		{"empty endpoint", Request{Service: ServiceStripe, Endpoint: "", Method: "get"}},
		{"absolute URL in endpoint", Request{Service: ServiceStripe, Endpoint: "https://evil.example.com/x", Method: "get"}},
		{"path traversal", Request{Service: ServiceQBO, Endpoint: "../admin", Method: "get", RealmID: "123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := table.Resolve(tt.req)
			var unsupported *UnsupportedOperationError
			if !errors.As(err, &unsupported) {
				t.Fatalf("Resolve() error = %v, want *UnsupportedOperationError", err)
			}
			// Diagnostics carry the literal endpoint and method.
			if unsupported.Endpoint != tt.req.Endpoint || unsupported.Method != tt.req.Method {
				t.Errorf("error carries (%q, %q), want (%q, %q)",
					unsupported.Endpoint, unsupported.Method, tt.req.Endpoint, tt.req.Method)
			}
		})
	}
}

func TestResolveOAuth(t *testing.T) {
	table := NewTable(Config{})

	wc, err := table.ResolveOAuth(OAuthToken, "client-id", "client-secret")
	if err != nil {
		t.Fatalf("ResolveOAuth() error = %v", err)
	}
	if wc.URL != DefaultQBOOAuthURL {
		t.Errorf("URL = %q, want %q", wc.URL, DefaultQBOOAuthURL)
	}
	if wc.Method != http.MethodPost {
		t.Errorf("Method = %q, want POST", wc.Method)
	}
	// base64("client-id:client-secret")
	want := "Basic Y2xpZW50LWlkOmNsaWVudC1zZWNyZXQ="
	if got := wc.Header.Get("Authorization"); got != want {
		t.Errorf("Authorization = %q, want %q", got, want)
	}
	if got := wc.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", got)
	}

	if _, err := table.ResolveOAuth(OAuthRefresh, "client-id", "client-secret"); err != nil {
		t.Errorf("ResolveOAuth(refresh) error = %v", err)
	}

	if _, err := table.ResolveOAuth("revoke", "client-id", "client-secret"); err == nil {
		t.Error("ResolveOAuth() expected error for unknown operation")
	}

	if _, err := table.ResolveOAuth(OAuthToken, "", ""); err == nil {
		t.Error("ResolveOAuth() expected error for missing credentials")
	}
}

func TestEnvironmentDefaultsToSandbox(t *testing.T) {
	table := NewTable(Config{})
	if table.Environment() != EnvSandbox {
		t.Errorf("Environment() = %q, want sandbox", table.Environment())
	}
}
