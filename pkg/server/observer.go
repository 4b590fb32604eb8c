package server

import (
	"cnstrct-hq/relay/pkg/audit"
	"cnstrct-hq/relay/pkg/proxy/handlers"
	"cnstrct-hq/relay/pkg/telemetry/metrics"
)

// callObserver fans each completed proxy call out to the metrics collector
// and the audit recorder. Either sink may be absent.
type callObserver struct {
	metrics  *metrics.Collector
	recorder *audit.Recorder
}

// newCallObserver returns nil when there is nothing to observe with, which
// the handlers treat as "no observer".
func newCallObserver(collector *metrics.Collector, recorder *audit.Recorder) handlers.CallObserver {
	if collector == nil && recorder == nil {
		return nil
	}
	return &callObserver{metrics: collector, recorder: recorder}
}

// ObserveCall implements handlers.CallObserver.
func (o *callObserver) ObserveCall(call handlers.ObservedCall) {
	if o.metrics != nil {
		o.metrics.RecordRequest(call.Service, call.Method, call.Status, call.Latency)
		if call.ErrorKind != "" {
			o.metrics.RecordUpstreamError(call.Service, call.ErrorKind)
		}
	}
	if o.recorder != nil {
		o.recorder.Record(&audit.Call{
			RequestID: call.RequestID,
			Service:   call.Service,
			Endpoint:  call.Endpoint,
			Method:    call.Method,
			Status:    call.Status,
			ErrorKind: call.ErrorKind,
			Latency:   call.Latency,
		})
	}
}
