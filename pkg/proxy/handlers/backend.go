package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"cnstrct-hq/relay/pkg/proxy"
	"cnstrct-hq/relay/pkg/proxy/middleware"
	"cnstrct-hq/relay/pkg/proxy/types"
	"cnstrct-hq/relay/pkg/route"
)

// BackendHandler serves POST /proxy/backend.
type BackendHandler struct {
	svc      BackendForwarder
	observer CallObserver
	logger   *slog.Logger
}

// NewBackendHandler creates the backend proxy handler.
func NewBackendHandler(svc BackendForwarder, observer CallObserver, logger *slog.Logger) *BackendHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackendHandler{svc: svc, observer: observer, logger: logger}
}

// ServeHTTP implements http.Handler.
func (h *BackendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}

	start := time.Now()

	var req types.BackendProxyRequest
	if err := proxy.ParseJSONBody(r, &req); err != nil {
		h.fail(w, r, req.Endpoint, req.Method, err, start)
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, r, req.Endpoint, req.Method, err, start)
		return
	}

	h.logger.DebugContext(r.Context(), "forwarding backend operation",
		"request_id", middleware.GetRequestID(r.Context()),
		"endpoint", req.Endpoint,
		"method", canonicalMethod(req.Method),
	)

	result, err := h.svc.Forward(r.Context(), &req)
	if err != nil {
		h.fail(w, r, req.Endpoint, req.Method, err, start)
		return
	}

	observe(h.observer, r, route.ServiceBackend, req.Endpoint, req.Method, result.StatusCode, "", start)
	if werr := proxy.WriteUpstream(w, result.StatusCode, result.Data); werr != nil {
		h.logger.ErrorContext(r.Context(), "failed to write response", "error", werr)
	}
}

func (h *BackendHandler) fail(w http.ResponseWriter, r *http.Request, endpoint, method string, err error, start time.Time) {
	errResp := proxy.HandleError(err)
	observe(h.observer, r, route.ServiceBackend, endpoint, method, errResp.Status, errResp.Kind, start)
	if werr := proxy.WriteError(w, errResp); werr != nil {
		h.logger.ErrorContext(r.Context(), "failed to write error response", "error", werr)
	}
}
