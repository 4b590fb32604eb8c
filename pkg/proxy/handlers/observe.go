package handlers

import (
	"net/http"
	"strings"
	"time"

	"cnstrct-hq/relay/pkg/proxy/middleware"
)

// observe reports a completed call to the observer, if one is set.
func observe(obs CallObserver, r *http.Request, service, endpoint, method string, status int, errorKind string, start time.Time) {
	if obs == nil {
		return
	}
	obs.ObserveCall(ObservedCall{
		Service:   service,
		Endpoint:  endpoint,
		Method:    canonicalMethod(method),
		Status:    status,
		ErrorKind: errorKind,
		Latency:   time.Since(start),
		RequestID: middleware.GetRequestID(r.Context()),
	})
}

// canonicalMethod uppercases the caller's verb, defaulting to POST the same
// way the routing table does.
func canonicalMethod(method string) string {
	if method == "" {
		return http.MethodPost
	}
	return strings.ToUpper(method)
}

// methodNotAllowed writes the 405 envelope shared by the proxied routes.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodPost)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	_, _ = w.Write([]byte(`{"error":"method not allowed, use POST","errorKind":"ValidationError"}`))
}
