package proxy

import (
	"errors"
	"net/http"

	"cnstrct-hq/relay/pkg/proxy/types"
	"cnstrct-hq/relay/pkg/route"
	"cnstrct-hq/relay/pkg/services"
)

// HandleError converts whatever a handler or adapter returned into the
// normalized error envelope. Every error a proxied route can produce passes
// through here exactly once, which is what keeps the error surface uniform
// across the three upstreams.
//
// Example usage:
//
//	result, err := svc.Forward(ctx, req)
//	if err != nil {
//	    _ = proxy.WriteError(w, proxy.HandleError(err))
//	    return
//	}
func HandleError(err error) *types.ErrorResponse {
	// Boundary validation failures: bad JSON, missing fields. The request
	// never left the relay.
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return types.NewValidationError(reqErr.Message, reqErr.Param)
	}

	var fieldErr *types.FieldError
	if errors.As(err, &fieldErr) {
		return types.NewValidationError(fieldErr.Message, fieldErr.Field)
	}

	var svcValErr *services.ValidationError
	if errors.As(err, &svcValErr) {
		return types.NewValidationError(svcValErr.Message, svcValErr.Field)
	}

	// A (service, endpoint, method) triple the routing table cannot map.
	var unsupportedErr *route.UnsupportedOperationError
	if errors.As(err, &unsupportedErr) {
		return types.NewValidationError(unsupportedErr.Error(), "endpoint")
	}

	// The upstream answered with an error; the adapter already classified
	// it.
	var upstreamErr *services.UpstreamError
	if errors.As(err, &upstreamErr) {
		return handleUpstreamError(upstreamErr)
	}

	// No response at all: timeout, DNS failure, connection refused.
	var transportErr *services.TransportError
	if errors.As(err, &transportErr) {
		return types.NewConnectionError(
			http.StatusInternalServerError,
			"Internal server error",
			transportErr.Cause.Error(),
			transportErr.Service,
		)
	}

	// Unknown error: never leak internals to the caller.
	return types.NewServerError("An internal error occurred. Please try again later.")
}

// handleUpstreamError maps the adapter's classification onto an envelope
// constructor.
func handleUpstreamError(err *services.UpstreamError) *types.ErrorResponse {
	switch err.Kind {
	case services.KindAuthentication:
		return types.NewAuthenticationError(err.Message, err.Type, err.Service, err.ConfigHelp, err.Details)

	case services.KindConnection:
		resp := types.NewConnectionError(err.StatusCode, err.Message, "", err.Service)
		resp.Type = err.Type
		resp.Details = err.Details
		return resp

	default:
		return types.NewUpstreamError(err.StatusCode, err.Message, err.Type, err.Service, err.Details)
	}
}
