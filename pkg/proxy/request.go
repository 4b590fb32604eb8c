package proxy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	// MaxRequestBodySize is the absolute ceiling on request body size
	// (10MB). The server applies the configured per-deployment limit via
	// middleware; this constant backstops callers that bypass it.
	MaxRequestBodySize = 10 * 1024 * 1024

	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"
)

// RequestError represents a request parsing error: unreadable body, body too
// large, or malformed JSON. It always maps to HTTP 400.
type RequestError struct {
	Message string
	Param   string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// ParseJSONBody decodes an HTTP request body into dst. It enforces
// MaxRequestBodySize, surfaces the middleware body limit as a 400, and
// rejects trailing garbage after the JSON document.
//
// Example usage:
//
//	var req types.StripeProxyRequest
//	if err := proxy.ParseJSONBody(r, &req); err != nil {
//	    proxy.WriteError(w, proxy.HandleError(err))
//	    return
//	}
func ParseJSONBody(r *http.Request, dst any) error {
	limitedReader := io.LimitReader(r.Body, MaxRequestBodySize+1)

	body, err := io.ReadAll(limitedReader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &RequestError{
				Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", maxErr.Limit),
				Param:   "body",
			}
		}
		return &RequestError{
			Message: fmt.Sprintf("failed to read request body: %v", err),
			Param:   "body",
		}
	}
	if len(body) > MaxRequestBodySize {
		return &RequestError{
			Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", MaxRequestBodySize),
			Param:   "body",
		}
	}
	if len(body) == 0 {
		return &RequestError{
			Message: "request body is required",
			Param:   "body",
		}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(dst); err != nil {
		return &RequestError{
			Message: fmt.Sprintf("invalid JSON: %v", err),
			Param:   "body",
		}
	}
	if dec.More() {
		return &RequestError{
			Message: "request body must contain a single JSON document",
			Param:   "body",
		}
	}

	return nil
}

// ExtractRequestID extracts the request ID from the X-Request-ID header.
// If the header is not present, it returns an empty string; the middleware
// then generates one.
func ExtractRequestID(r *http.Request) string {
	return r.Header.Get(RequestIDHeader)
}
