// Package types defines the inbound request and error shapes of the relay's
// HTTP surface.
//
// Each proxy route has its own tagged request type, validated at the
// boundary before the resource router runs. A request that is missing
// required fields fails with a 400 before any upstream socket is opened.
//
// The error envelope is uniform across services: a human-readable message
// plus a machine-checkable errorKind (and, where the upstream supplied one,
// its original type string) so calling UI code can branch, for example
// prompting for re-authentication on AuthenticationError.
package types
