package logging

import (
	"context"
	"log/slog"
	"regexp"
)

// Redactor redacts credential-shaped substrings from log values.
type Redactor struct {
	patterns []redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor creates a Redactor covering the credential shapes that pass
// through the relay: Stripe secret keys, bearer tokens, HTTP Basic values,
// and generic secret-named fields.
func NewRedactor() *Redactor {
	compile := func(pattern, replacement string) redactPattern {
		return redactPattern{regexp.MustCompile(pattern), replacement}
	}
	return &Redactor{
		patterns: []redactPattern{
			// Stripe secret and restricted keys.
			compile(`\b(sk|rk)_(test|live)_[a-zA-Z0-9]+`, "$1_$2_***"),

			// Bearer and Basic authorization values.
			compile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`, "Bearer ***"),
			compile(`Basic\s+[a-zA-Z0-9+/]+=*`, "Basic ***"),

			// Generic secret-named fields in stringified payloads.
			compile(`(?i)("?(client_?secret|refresh_?token|access_?token|secret_?key)"?\s*[:=]\s*)"?[^",\s}]+"?`, `$1"***"`),
		},
	}
}

// RedactString redacts credential-shaped substrings from a string value.
func (r *Redactor) RedactString(value string) string {
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// RedactingHandler is a slog.Handler wrapper that redacts every string
// attribute value before delegating to the wrapped handler.
type RedactingHandler struct {
	inner    slog.Handler
	redactor *Redactor
}

// NewRedactingHandler wraps handler with credential redaction.
func NewRedactingHandler(handler slog.Handler, redactor *Redactor) *RedactingHandler {
	if redactor == nil {
		redactor = NewRedactor()
	}
	return &RedactingHandler{inner: handler, redactor: redactor}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler, redacting the message and all string
// attribute values.
func (h *RedactingHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, h.redactor.RedactString(record.Message), record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		clean.AddAttrs(h.redactAttr(attr))
		return true
	})
	return h.inner.Handle(ctx, clean)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		redacted[i] = h.redactAttr(attr)
	}
	return &RedactingHandler{inner: h.inner.WithAttrs(redacted), redactor: h.redactor}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{inner: h.inner.WithGroup(name), redactor: h.redactor}
}

// redactAttr redacts string values, descending into groups.
func (h *RedactingHandler) redactAttr(attr slog.Attr) slog.Attr {
	switch attr.Value.Kind() {
	case slog.KindString:
		return slog.String(attr.Key, h.redactor.RedactString(attr.Value.String()))
	case slog.KindGroup:
		members := attr.Value.Group()
		redacted := make([]any, 0, len(members))
		for _, member := range members {
			redacted = append(redacted, h.redactAttr(member))
		}
		return slog.Group(attr.Key, redacted...)
	default:
		return attr
	}
}
