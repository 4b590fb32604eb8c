// Package audit records one row per proxied call in a local SQLite
// database: which service, which endpoint, the outcome, and the latency.
// Payloads and credentials are never stored.
//
// Writes are asynchronous. The Recorder drops records when its buffer is
// full rather than adding latency to request handling, and a cron-scheduled
// pruner enforces the retention window.
package audit
