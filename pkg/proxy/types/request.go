package types

import (
	"encoding/json"
	"fmt"
)

// FieldError reports a request field that is missing or malformed. It is
// always caller-fixable and maps to HTTP 400.
type FieldError struct {
	// Field is the JSON name of the offending field.
	Field string

	// Message describes what is wrong with the field.
	Message string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Message)
}

// StripeProxyRequest is the body of POST /proxy/stripe.
type StripeProxyRequest struct {
	// AccessToken is the Stripe secret key for this call. SecretKey is an
	// accepted alias; the dashboard has used both names over time.
	AccessToken string `json:"accessToken,omitempty"`
	SecretKey   string `json:"secretKey,omitempty"`

	// Endpoint is the Stripe resource path, e.g. "payment_intents" or
	// "accounts/{id}/login_links".
	Endpoint string `json:"endpoint"`

	// Method is one of get/post/put/delete. Empty means post.
	Method string `json:"method,omitempty"`

	// Data is the abstract payload, form-encoded or query-encoded
	// downstream depending on the method.
	Data json.RawMessage `json:"data,omitempty"`

	// AccountID, when set, runs the call on behalf of a connected account.
	AccountID string `json:"accountId,omitempty"`
}

// Key returns the effective per-request credential. AccessToken wins over
// the SecretKey alias.
func (r *StripeProxyRequest) Key() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.SecretKey
}

// Validate checks required fields. hasDefaultKey reports whether the relay
// carries a configured fallback secret key; without one, a per-request
// credential is required.
func (r *StripeProxyRequest) Validate(hasDefaultKey bool) error {
	if r.Endpoint == "" {
		return &FieldError{Field: "endpoint", Message: "endpoint is required"}
	}
	if r.Key() == "" && !hasDefaultKey {
		return &FieldError{Field: "accessToken", Message: "a Stripe secret key is required (accessToken or secretKey, or configure a server default)"}
	}
	return nil
}

// QBOTokenRequest is the body of POST /proxy/qbo/token.
type QBOTokenRequest struct {
	// Code is the OAuth authorization code from the QuickBooks consent
	// redirect.
	Code string `json:"code"`

	// RedirectURI must match the URI registered with the QuickBooks app.
	RedirectURI string `json:"redirectUri"`

	// ClientID and ClientSecret override the configured app credentials.
	ClientID     string `json:"clientId,omitempty"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

// Validate checks required fields. hasDefaultCredentials reports whether
// the relay carries configured QuickBooks app credentials.
func (r *QBOTokenRequest) Validate(hasDefaultCredentials bool) error {
	if r.Code == "" {
		return &FieldError{Field: "code", Message: "code is required"}
	}
	if r.RedirectURI == "" {
		return &FieldError{Field: "redirectUri", Message: "redirectUri is required"}
	}
	if (r.ClientID == "" || r.ClientSecret == "") && !hasDefaultCredentials {
		return &FieldError{Field: "clientId", Message: "QuickBooks client credentials are required (clientId and clientSecret, or configure server defaults)"}
	}
	return nil
}

// QBORefreshRequest is the body of POST /proxy/qbo/refresh.
type QBORefreshRequest struct {
	// RefreshToken is the OAuth refresh token to exchange.
	RefreshToken string `json:"refreshToken"`

	// ClientID and ClientSecret override the configured app credentials.
	ClientID     string `json:"clientId,omitempty"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

// Validate checks required fields.
func (r *QBORefreshRequest) Validate(hasDefaultCredentials bool) error {
	if r.RefreshToken == "" {
		return &FieldError{Field: "refreshToken", Message: "refreshToken is required"}
	}
	if (r.ClientID == "" || r.ClientSecret == "") && !hasDefaultCredentials {
		return &FieldError{Field: "clientId", Message: "QuickBooks client credentials are required (clientId and clientSecret, or configure server defaults)"}
	}
	return nil
}

// QBODataRequest is the body of POST /proxy/qbo/data-operation.
type QBODataRequest struct {
	// AccessToken is the caller's QuickBooks OAuth access token.
	AccessToken string `json:"accessToken"`

	// RealmID is the QuickBooks company the operation targets.
	RealmID string `json:"realmId"`

	// Endpoint is the company data resource, e.g. "invoice" or "query".
	Endpoint string `json:"endpoint"`

	// Method is one of get/post/put/delete. Empty means post.
	Method string `json:"method,omitempty"`

	// Data is the abstract payload; the "query" endpoint lifts
	// data.query into a query parameter instead of a body.
	Data json.RawMessage `json:"data,omitempty"`
}

// Validate checks required fields.
func (r *QBODataRequest) Validate() error {
	if r.AccessToken == "" {
		return &FieldError{Field: "accessToken", Message: "accessToken is required"}
	}
	if r.RealmID == "" {
		return &FieldError{Field: "realmId", Message: "realmId is required"}
	}
	if r.Endpoint == "" {
		return &FieldError{Field: "endpoint", Message: "endpoint is required"}
	}
	return nil
}

// BackendProxyRequest is the body of POST /proxy/backend. The relay
// forwards these calls largely unmodified; its only job is attaching the
// caller's bearer token.
type BackendProxyRequest struct {
	// AccessToken is the caller's session token for the hosted backend.
	AccessToken string `json:"accessToken"`

	// Endpoint is the backend resource path, e.g. "projects".
	Endpoint string `json:"endpoint"`

	// Method is one of get/post/put/delete. Empty means post.
	Method string `json:"method,omitempty"`

	// Data is forwarded as-is (JSON body, or query parameters on get).
	Data json.RawMessage `json:"data,omitempty"`
}

// Validate checks required fields.
func (r *BackendProxyRequest) Validate() error {
	if r.AccessToken == "" {
		return &FieldError{Field: "accessToken", Message: "accessToken is required"}
	}
	if r.Endpoint == "" {
		return &FieldError{Field: "endpoint", Message: "endpoint is required"}
	}
	return nil
}
