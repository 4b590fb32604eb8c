package qbo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cnstrct-hq/relay/pkg/proxy/types"
	"cnstrct-hq/relay/pkg/route"
	"cnstrct-hq/relay/pkg/services"
)

type capturedCall struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

func newTestClient(t *testing.T, cfg Config, env route.Environment, status int, respBody string) (*Client, *capturedCall) {
	t.Helper()

	last := &capturedCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		last.Method = r.Method
		last.Path = r.URL.Path
		last.Query = r.URL.RawQuery
		last.Header = r.Header.Clone()
		last.Body = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)

	table := route.NewTable(route.Config{
		Environment:          env,
		QBOSandboxBaseURL:    srv.URL,
		QBOProductionBaseURL: srv.URL,
		QBOOAuthURL:          srv.URL + "/oauth2/v1/tokens/bearer",
	})
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	c := New(cfg, table)
	t.Cleanup(func() { _ = c.Close() })
	return c, last
}

func TestDataOperationQueryEndpoint(t *testing.T) {
	c, last := newTestClient(t, Config{}, route.EnvSandbox, http.StatusOK,
		`{"QueryResponse":{"Invoice":[]}}`)

	res, err := c.DataOperation(context.Background(), &types.QBODataRequest{
		AccessToken: "qbo-token",
		RealmID:     "9341452",
		Endpoint:    "query",
		Method:      "get",
		Data:        json.RawMessage(`{"query":"SELECT * FROM Invoice"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, last.Method)
	assert.Equal(t, "/v3/company/9341452/query", last.Path)
	assert.Equal(t, "query=SELECT%20%2A%20FROM%20Invoice", last.Query)
	assert.Empty(t, last.Body, "query operations carry no body")
	assert.Equal(t, "Bearer qbo-token", last.Header.Get("Authorization"))
	assert.Equal(t, "application/json", last.Header.Get("Accept"))
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestDataOperationJSONBody(t *testing.T) {
	c, last := newTestClient(t, Config{}, route.EnvSandbox, http.StatusOK, `{"Invoice":{"Id":"1"}}`)

	payload := `{"Line":[{"Amount":100.0,"DetailType":"SalesItemLineDetail"}],"CustomerRef":{"value":"3"}}`
	_, err := c.DataOperation(context.Background(), &types.QBODataRequest{
		AccessToken: "qbo-token",
		RealmID:     "9341452",
		Endpoint:    "invoice",
		Method:      "post",
		Data:        json.RawMessage(payload),
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/v3/company/9341452/invoice", last.Path)
	assert.Equal(t, "application/json", last.Header.Get("Content-Type"))
	assert.JSONEq(t, payload, last.Body)
}

func TestDataOperationAuthError(t *testing.T) {
	c, _ := newTestClient(t, Config{}, route.EnvSandbox, http.StatusUnauthorized,
		`{"Fault":{"Error":[{"Message":"AuthenticationFailed","Detail":"Token expired","code":"3200"}],"type":"AUTHENTICATION"}}`)

	_, err := c.DataOperation(context.Background(), &types.QBODataRequest{
		AccessToken: "stale-token",
		RealmID:     "9341452",
		Endpoint:    "invoice",
		Method:      "get",
	})

	var ue *services.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, services.KindAuthentication, ue.Kind)
	assert.Equal(t, http.StatusUnauthorized, ue.StatusCode)
	assert.Equal(t, "AUTHENTICATION", ue.Type)
	assert.Equal(t, "AuthenticationFailed: Token expired", ue.Message)
	assert.NotEmpty(t, ue.ConfigHelp)
}

func TestDataOperationFaultMirrored(t *testing.T) {
	body := `{"Fault":{"Error":[{"Message":"Object Not Found","Detail":"Invoice 42 not found","code":"610"}],"type":"ValidationFault"}}`
	c, _ := newTestClient(t, Config{}, route.EnvSandbox, http.StatusBadRequest, body)

	_, err := c.DataOperation(context.Background(), &types.QBODataRequest{
		AccessToken: "qbo-token",
		RealmID:     "9341452",
		Endpoint:    "invoice/42",
		Method:      "get",
	})

	var ue *services.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, services.KindUpstream, ue.Kind)
	assert.Equal(t, http.StatusBadRequest, ue.StatusCode)
	assert.Equal(t, "ValidationFault", ue.Type)
	assert.JSONEq(t, body, string(ue.Details))
}

func TestDataOperationForbiddenMirrored(t *testing.T) {
	body := `{"Fault":{"Error":[{"Message":"Permission Denied","Detail":"Subscription lapsed","code":"5020"}],"type":"AUTHORIZATION"}}`
	c, _ := newTestClient(t, Config{}, route.EnvSandbox, http.StatusForbidden, body)

	_, err := c.DataOperation(context.Background(), &types.QBODataRequest{
		AccessToken: "qbo-token",
		RealmID:     "9341452",
		Endpoint:    "invoice",
		Method:      "get",
	})

	// 403 means the token is valid but the action is denied, so the status
	// passes through rather than collapsing into a credentials error.
	var ue *services.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, services.KindUpstream, ue.Kind)
	assert.Equal(t, http.StatusForbidden, ue.StatusCode)
	assert.Equal(t, "AUTHORIZATION", ue.Type)
	assert.Equal(t, "Permission Denied: Subscription lapsed", ue.Message)
	assert.Empty(t, ue.ConfigHelp)
	assert.JSONEq(t, body, string(ue.Details))
}

func TestExchangeTokenForm(t *testing.T) {
	c, last := newTestClient(t, Config{ClientID: "client-id", ClientSecret: "client-secret"},
		route.EnvSandbox, http.StatusOK,
		`{"access_token":"at","refresh_token":"rt","expires_in":3600}`)

	res, err := c.ExchangeToken(context.Background(), &types.QBOTokenRequest{
		Code:        "auth-code-1",
		RedirectURI: "https://app.example.com/qbo/callback",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/oauth2/v1/tokens/bearer", last.Path)
	assert.Equal(t, "Basic Y2xpZW50LWlkOmNsaWVudC1zZWNyZXQ=", last.Header.Get("Authorization"))
	assert.Equal(t, "application/x-www-form-urlencoded", last.Header.Get("Content-Type"))
	assert.Equal(t,
		"code=auth-code-1&grant_type=authorization_code&redirect_uri=https%3A%2F%2Fapp.example.com%2Fqbo%2Fcallback",
		last.Body)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestRefreshTokenForm(t *testing.T) {
	c, last := newTestClient(t, Config{ClientID: "client-id", ClientSecret: "client-secret"},
		route.EnvSandbox, http.StatusOK, `{"access_token":"at2"}`)

	_, err := c.RefreshToken(context.Background(), &types.QBORefreshRequest{
		RefreshToken: "rt-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "grant_type=refresh_token&refresh_token=rt-1", last.Body)
}

func TestRefreshTokenPerRequestCredentialsWin(t *testing.T) {
	c, last := newTestClient(t, Config{ClientID: "default-id", ClientSecret: "default-secret"},
		route.EnvSandbox, http.StatusOK, `{"access_token":"at2"}`)

	_, err := c.RefreshToken(context.Background(), &types.QBORefreshRequest{
		RefreshToken: "rt-1",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "Basic Y2xpZW50LWlkOmNsaWVudC1zZWNyZXQ=", last.Header.Get("Authorization"))
}

func TestExchangeTokenInvalidGrant(t *testing.T) {
	c, _ := newTestClient(t, Config{ClientID: "client-id", ClientSecret: "client-secret"},
		route.EnvSandbox, http.StatusBadRequest,
		`{"error":"invalid_grant","error_description":"Authorization code expired"}`)

	_, err := c.ExchangeToken(context.Background(), &types.QBOTokenRequest{
		Code:        "stale-code",
		RedirectURI: "https://app.example.com/qbo/callback",
	})

	var ue *services.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, services.KindAuthentication, ue.Kind)
	assert.Equal(t, http.StatusUnauthorized, ue.StatusCode)
	assert.Equal(t, "invalid_grant", ue.Type)
	assert.Equal(t, "Authorization code expired", ue.Message)
}

func TestHasDefaultClientCredentials(t *testing.T) {
	c, _ := newTestClient(t, Config{}, route.EnvSandbox, http.StatusOK, `{}`)
	assert.False(t, c.HasDefaultClientCredentials())

	c.SetClientCredentials("id", "secret")
	assert.True(t, c.HasDefaultClientCredentials())
}
