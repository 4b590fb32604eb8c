package handlers

import (
	"context"
	"time"

	"cnstrct-hq/relay/pkg/proxy/types"
	"cnstrct-hq/relay/pkg/services"
)

// StripeForwarder is the handler-facing surface of the Stripe adapter.
type StripeForwarder interface {
	Forward(ctx context.Context, req *types.StripeProxyRequest) (*services.Result, error)
	HasDefaultKey() bool
}

// QBOService is the handler-facing surface of the QuickBooks adapter.
type QBOService interface {
	ExchangeToken(ctx context.Context, req *types.QBOTokenRequest) (*services.Result, error)
	RefreshToken(ctx context.Context, req *types.QBORefreshRequest) (*services.Result, error)
	DataOperation(ctx context.Context, req *types.QBODataRequest) (*services.Result, error)
	HasDefaultClientCredentials() bool
}

// BackendForwarder is the handler-facing surface of the backend adapter.
type BackendForwarder interface {
	Forward(ctx context.Context, req *types.BackendProxyRequest) (*services.Result, error)
}

// HealthReporter exposes per-service reachability for the health endpoints.
type HealthReporter interface {
	Health() map[string]services.HealthState
}

// ObservedCall is the completion summary a handler reports after each
// proxied call, successful or not.
type ObservedCall struct {
	Service   string
	Endpoint  string
	Method    string
	Status    int
	ErrorKind string
	Latency   time.Duration
	RequestID string
}

// CallObserver receives one ObservedCall per proxied request. The server
// wires metrics and the audit recorder in through this; a nil observer is
// always legal.
type CallObserver interface {
	ObserveCall(call ObservedCall)
}
