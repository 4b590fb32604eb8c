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

// StripeHandler serves POST /proxy/stripe.
type StripeHandler struct {
	svc      StripeForwarder
	observer CallObserver
	logger   *slog.Logger
}

// NewStripeHandler creates the Stripe proxy handler.
func NewStripeHandler(svc StripeForwarder, observer CallObserver, logger *slog.Logger) *StripeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StripeHandler{svc: svc, observer: observer, logger: logger}
}

// ServeHTTP implements http.Handler.
func (h *StripeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}

	ctx := r.Context()
	start := time.Now()

	var req types.StripeProxyRequest
	if err := proxy.ParseJSONBody(r, &req); err != nil {
		h.fail(w, r, req.Endpoint, req.Method, err, start)
		return
	}
	if err := req.Validate(h.svc.HasDefaultKey()); err != nil {
		h.fail(w, r, req.Endpoint, req.Method, err, start)
		return
	}

	h.logger.DebugContext(ctx, "forwarding stripe operation",
		"request_id", middleware.GetRequestID(ctx),
		"endpoint", req.Endpoint,
		"method", canonicalMethod(req.Method),
		"connected_account", req.AccountID != "",
	)

	result, err := h.svc.Forward(ctx, &req)
	if err != nil {
		h.fail(w, r, req.Endpoint, req.Method, err, start)
		return
	}

	observe(h.observer, r, route.ServiceStripe, req.Endpoint, req.Method, result.StatusCode, "", start)
	if err := proxy.WriteUpstream(w, result.StatusCode, result.Data); err != nil {
		h.logger.ErrorContext(ctx, "failed to write response", "error", err)
	}
}

func (h *StripeHandler) fail(w http.ResponseWriter, r *http.Request, endpoint, method string, err error, start time.Time) {
	errResp := proxy.HandleError(err)
	observe(h.observer, r, route.ServiceStripe, endpoint, method, errResp.Status, errResp.Kind, start)
	if werr := proxy.WriteError(w, errResp); werr != nil {
		h.logger.ErrorContext(r.Context(), "failed to write error response", "error", werr)
	}
}
