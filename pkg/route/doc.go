// Package route maps abstract resource operations onto concrete third-party
// wire calls.
//
// A Table holds one descriptor per upstream service (stripe, qbo, backend).
// Resolve takes the (service, endpoint, method) triple a caller supplied and
// produces a WireCall: the fully-qualified URL, the authentication headers,
// and the encoding the request body needs. Provider differences live in the
// descriptor data, not in per-provider branches.
//
// QuickBooks OAuth token exchange and refresh do not go through Resolve;
// they use a second, parallel routing path (ResolveOAuth) with a fixed
// endpoint and HTTP Basic authentication.
//
// Resolution is a pure function of the request and the table configuration.
// It never performs I/O: an unsupported triple fails with
// *UnsupportedOperationError before any network activity.
package route
