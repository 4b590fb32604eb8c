package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"cnstrct-hq/relay/pkg/proxy/types"
)

// WriteJSON writes a JSON response. It sets the content-type header before
// the status line; marshal failures after WriteHeader cannot be recovered
// and are returned for logging only.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}
	return nil
}

// WriteError writes a normalized error envelope with its embedded status.
func WriteError(w http.ResponseWriter, errResp *types.ErrorResponse) error {
	return WriteJSON(w, errResp.Status, errResp)
}

// WriteUpstream relays a successful upstream response body verbatim,
// mirroring the upstream status. An empty body (204-style responses) is
// passed through as-is.
func WriteUpstream(w http.ResponseWriter, statusCode int, body []byte) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if len(body) == 0 {
		return nil
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write upstream response: %w", err)
	}
	return nil
}
