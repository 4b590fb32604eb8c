// Package encode serializes proxied request payloads into the wire formats
// the upstream services expect.
//
// Three encodings exist:
//
//   - Form: application/x-www-form-urlencoded with Stripe's bracket notation
//     for nested structures ({a:{b:1}} -> a[b]=1, arrays of objects ->
//     a[0][b]=1, arrays of scalars -> a[]=v repeated).
//   - Query: the same pair expansion appended as a URL query string, used
//     for GET operations.
//   - JSON: the payload forwarded verbatim with Content-Type
//     application/json.
//
// Pair expansion walks the raw JSON payload with a json.Decoder rather than
// unmarshaling into a map, so the emitted pairs preserve the key order of
// the request document. Null values are omitted entirely; numbers keep their
// literal decimal text (Stripe amounts are integer cents and must never pick
// up a floating-point representation on the way through).
package encode
