package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"cnstrct-hq/relay/pkg/proxy"
	"cnstrct-hq/relay/pkg/proxy/middleware"
	"cnstrct-hq/relay/pkg/proxy/types"
	"cnstrct-hq/relay/pkg/route"
	"cnstrct-hq/relay/pkg/services"
)

// QBOHandler serves the three QuickBooks routes: POST /proxy/qbo/token,
// POST /proxy/qbo/refresh, and POST /proxy/qbo/data-operation.
type QBOHandler struct {
	svc      QBOService
	observer CallObserver
	logger   *slog.Logger
}

// NewQBOHandler creates the QuickBooks proxy handler.
func NewQBOHandler(svc QBOService, observer CallObserver, logger *slog.Logger) *QBOHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QBOHandler{svc: svc, observer: observer, logger: logger}
}

// Token handles the OAuth authorization-code exchange.
func (h *QBOHandler) Token(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}

	start := time.Now()

	var req types.QBOTokenRequest
	if err := proxy.ParseJSONBody(r, &req); err != nil {
		h.fail(w, r, "token", err, start)
		return
	}
	if err := req.Validate(h.svc.HasDefaultClientCredentials()); err != nil {
		h.fail(w, r, "token", err, start)
		return
	}

	h.logger.DebugContext(r.Context(), "exchanging quickbooks authorization code",
		"request_id", middleware.GetRequestID(r.Context()),
	)

	result, err := h.svc.ExchangeToken(r.Context(), &req)
	if err != nil {
		h.fail(w, r, "token", err, start)
		return
	}
	h.succeed(w, r, "token", result, start)
}

// Refresh handles the OAuth refresh-token exchange.
func (h *QBOHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}

	start := time.Now()

	var req types.QBORefreshRequest
	if err := proxy.ParseJSONBody(r, &req); err != nil {
		h.fail(w, r, "refresh", err, start)
		return
	}
	if err := req.Validate(h.svc.HasDefaultClientCredentials()); err != nil {
		h.fail(w, r, "refresh", err, start)
		return
	}

	h.logger.DebugContext(r.Context(), "refreshing quickbooks access token",
		"request_id", middleware.GetRequestID(r.Context()),
	)

	result, err := h.svc.RefreshToken(r.Context(), &req)
	if err != nil {
		h.fail(w, r, "refresh", err, start)
		return
	}
	h.succeed(w, r, "refresh", result, start)
}

// DataOperation handles company data calls against the QuickBooks API.
func (h *QBOHandler) DataOperation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}

	start := time.Now()

	var req types.QBODataRequest
	if err := proxy.ParseJSONBody(r, &req); err != nil {
		h.failOp(w, r, req.Endpoint, req.Method, err, start)
		return
	}
	if err := req.Validate(); err != nil {
		h.failOp(w, r, req.Endpoint, req.Method, err, start)
		return
	}

	h.logger.DebugContext(r.Context(), "forwarding quickbooks operation",
		"request_id", middleware.GetRequestID(r.Context()),
		"endpoint", req.Endpoint,
		"method", canonicalMethod(req.Method),
		"realm_id", req.RealmID,
	)

	result, err := h.svc.DataOperation(r.Context(), &req)
	if err != nil {
		h.failOp(w, r, req.Endpoint, req.Method, err, start)
		return
	}

	observe(h.observer, r, route.ServiceQBO, req.Endpoint, req.Method, result.StatusCode, "", start)
	if werr := proxy.WriteUpstream(w, result.StatusCode, result.Data); werr != nil {
		h.logger.ErrorContext(r.Context(), "failed to write response", "error", werr)
	}
}

// succeed writes an OAuth success. The OAuth endpoints are always POST.
func (h *QBOHandler) succeed(w http.ResponseWriter, r *http.Request, endpoint string, result *services.Result, start time.Time) {
	observe(h.observer, r, route.ServiceQBO, endpoint, http.MethodPost, result.StatusCode, "", start)
	if werr := proxy.WriteUpstream(w, result.StatusCode, result.Data); werr != nil {
		h.logger.ErrorContext(r.Context(), "failed to write response", "error", werr)
	}
}

func (h *QBOHandler) fail(w http.ResponseWriter, r *http.Request, endpoint string, err error, start time.Time) {
	h.failOp(w, r, endpoint, http.MethodPost, err, start)
}

func (h *QBOHandler) failOp(w http.ResponseWriter, r *http.Request, endpoint, method string, err error, start time.Time) {
	errResp := proxy.HandleError(err)
	observe(h.observer, r, route.ServiceQBO, endpoint, method, errResp.Status, errResp.Kind, start)
	if werr := proxy.WriteError(w, errResp); werr != nil {
		h.logger.ErrorContext(r.Context(), "failed to write error response", "error", werr)
	}
}
