// Package qbo forwards company data operations and OAuth token exchanges to
// QuickBooks Online. Data operations hit the environment-selected company
// API host; token operations always hit Intuit's fixed OAuth endpoint with
// HTTP Basic credentials.
package qbo
