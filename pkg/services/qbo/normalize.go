package qbo

import (
	"encoding/json"
	"net/http"

	"cnstrct-hq/relay/pkg/route"
	"cnstrct-hq/relay/pkg/services"
)

// qboFaultBody is QuickBooks' company data error envelope.
type qboFaultBody struct {
	Fault struct {
		Error []struct {
			Message string `json:"Message"`
			Detail  string `json:"Detail"`
			Code    string `json:"code"`
		} `json:"Error"`
		Type string `json:"type"`
	} `json:"Fault"`
}

// oauthErrorBody is Intuit's OAuth error shape.
type oauthErrorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

// normalizeData maps a company data response onto the uniform result/error
// shape.
func normalizeData(out *services.Outcome) (*services.Result, error) {
	if out.StatusCode >= 200 && out.StatusCode < 300 {
		return &services.Result{StatusCode: out.StatusCode, Data: out.Body}, nil
	}

	upstreamType, message := parseFault(out.Body)

	if out.StatusCode == http.StatusUnauthorized {
		if message == "" {
			message = "QuickBooks rejected the access token"
		}
		return nil, &services.UpstreamError{
			Service:    route.ServiceQBO,
			Kind:       services.KindAuthentication,
			StatusCode: http.StatusUnauthorized,
			Type:       upstreamType,
			Message:    message,
			ConfigHelp: "The QuickBooks access token may be expired; refresh it and retry.",
			Details:    out.Body,
		}
	}

	if message == "" {
		message = http.StatusText(out.StatusCode)
	}
	return nil, &services.UpstreamError{
		Service:    route.ServiceQBO,
		Kind:       services.KindUpstream,
		StatusCode: out.StatusCode,
		Type:       upstreamType,
		Message:    message,
		Details:    out.Body,
	}
}

// normalizeOAuth maps an OAuth token response. Intuit signals credential
// problems with 400/401 and error "invalid_grant" or "invalid_client".
func normalizeOAuth(out *services.Outcome) (*services.Result, error) {
	if out.StatusCode >= 200 && out.StatusCode < 300 {
		return &services.Result{StatusCode: out.StatusCode, Data: out.Body}, nil
	}

	var parsed oauthErrorBody
	_ = json.Unmarshal(out.Body, &parsed)

	message := parsed.Description
	if message == "" {
		message = parsed.Error
	}

	if out.StatusCode == http.StatusUnauthorized ||
		parsed.Error == "invalid_client" || parsed.Error == "invalid_grant" {
		if message == "" {
			message = "QuickBooks rejected the OAuth credentials"
		}
		return nil, &services.UpstreamError{
			Service:    route.ServiceQBO,
			Kind:       services.KindAuthentication,
			StatusCode: http.StatusUnauthorized,
			Type:       parsed.Error,
			Message:    message,
			ConfigHelp: "Verify the QuickBooks client ID, client secret, and redirect URI match the app registration.",
			Details:    out.Body,
		}
	}

	if message == "" {
		message = http.StatusText(out.StatusCode)
	}
	return nil, &services.UpstreamError{
		Service:    route.ServiceQBO,
		Kind:       services.KindUpstream,
		StatusCode: out.StatusCode,
		Type:       parsed.Error,
		Message:    message,
		Details:    out.Body,
	}
}

// parseFault extracts the first fault entry's message and the fault type.
func parseFault(body []byte) (upstreamType, message string) {
	var parsed qboFaultBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", ""
	}
	upstreamType = parsed.Fault.Type
	if len(parsed.Fault.Error) > 0 {
		message = parsed.Fault.Error[0].Message
		if detail := parsed.Fault.Error[0].Detail; detail != "" && detail != message {
			message = message + ": " + detail
		}
	}
	return upstreamType, message
}
