package stripe

import "encoding/json"

// stripeErrorBody is the subset of Stripe's error envelope we inspect.
// The full body is passed through verbatim as error details.
type stripeErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// parseError extracts the error type and message from a Stripe error
// response. Stripe nests these under "error"; some SDK-shaped bodies put
// them at the top level. Unparseable bodies yield empty strings.
func parseError(body []byte) (upstreamType, message string) {
	var parsed stripeErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", ""
	}
	upstreamType = parsed.Error.Type
	if upstreamType == "" {
		upstreamType = parsed.Type
	}
	message = parsed.Error.Message
	if message == "" {
		message = parsed.Message
	}
	return upstreamType, message
}
