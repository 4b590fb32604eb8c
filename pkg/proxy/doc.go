// Package proxy contains the HTTP boundary shared by every proxied route:
// request body parsing with size limits, the uniform JSON response writers,
// and the error-to-envelope mapping.
//
// The package deliberately knows nothing about individual upstreams. The
// per-service adapters under pkg/services return typed errors; HandleError
// flattens whichever one it finds into the envelope the dashboard consumes.
package proxy
