package qbo

import (
	"context"
	"net/url"

	"cnstrct-hq/relay/pkg/proxy/types"
	"cnstrct-hq/relay/pkg/route"
	"cnstrct-hq/relay/pkg/services"
)

// ExchangeToken trades an OAuth authorization code for an access and
// refresh token pair.
func (c *Client) ExchangeToken(ctx context.Context, req *types.QBOTokenRequest) (*services.Result, error) {
	clientID, clientSecret := c.credentials(req.ClientID, req.ClientSecret)

	wc, err := c.table.ResolveOAuth(route.OAuthToken, clientID, clientSecret)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", req.Code)
	form.Set("redirect_uri", req.RedirectURI)

	return c.oauthCall(ctx, wc, form)
}

// RefreshToken exchanges a refresh token for a fresh access token.
func (c *Client) RefreshToken(ctx context.Context, req *types.QBORefreshRequest) (*services.Result, error) {
	clientID, clientSecret := c.credentials(req.ClientID, req.ClientSecret)

	wc, err := c.table.ResolveOAuth(route.OAuthRefresh, clientID, clientSecret)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", req.RefreshToken)

	return c.oauthCall(ctx, wc, form)
}

// credentials picks the per-request client pair, falling back to the
// configured app credentials. Both values must come from the same source.
func (c *Client) credentials(clientID, clientSecret string) (string, string) {
	if clientID != "" && clientSecret != "" {
		return clientID, clientSecret
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientID, c.clientSecret
}

func (c *Client) oauthCall(ctx context.Context, wc *route.WireCall, form url.Values) (*services.Result, error) {
	out, err := c.http.Do(ctx, wc, []byte(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}
	return normalizeOAuth(out)
}
