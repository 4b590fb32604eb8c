// Package stripe adapts abstract proxy operations to the Stripe REST API.
//
// Writes are form-urlencoded with bracket notation for nested parameters;
// reads send the payload as query parameters. Every call pins a fixed
// Stripe-Version header, and Connect calls run on behalf of a connected
// account via the Stripe-Account header.
package stripe
