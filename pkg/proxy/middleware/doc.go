// Package middleware provides the HTTP middleware chain for the relay:
// request IDs, structured request logging, panic recovery, CORS, and
// per-request deadlines.
//
// The chain is assembled outermost-first by the server:
//
//	recovery -> requestid -> logging -> cors -> timeout -> mux
//
// Recovery sits outermost so a panic anywhere below it still produces a
// well-formed JSON 500. Timeout sits innermost so the deadline covers only
// handler work, and the handler itself (via the upstream adapters) turns a
// cancelled context into the normalized error envelope instead of the
// middleware racing the handler for the response writer.
package middleware
