package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cnstrct-hq/relay/pkg/config"
	"cnstrct-hq/relay/pkg/servicefactory"
	"cnstrct-hq/relay/pkg/telemetry/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer wires a full server whose Stripe adapter points at the
// given upstream, and returns its handler.
func newTestServer(t *testing.T, stripeUpstream string) (*Server, http.Handler) {
	t.Helper()

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Services.Stripe.BaseURL = stripeUpstream
	cfg.Services.Stripe.SecretKey = "sk_test_default"

	manager := servicefactory.NewManager(cfg, discardLogger())
	t.Cleanup(func() { manager.Close() })

	srv := New(Options{
		Config:   cfg,
		Logger:   discardLogger(),
		Services: manager,
		Metrics:  metrics.NewCollector(),
		Version:  "test",
	})
	return srv, srv.Handler()
}

func TestServerHealthRoute(t *testing.T) {
	_, handler := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("body = %v", body)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing from response")
	}
}

func TestServerReadyRoute(t *testing.T) {
	_, handler := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Adapters start optimistic, so a fresh server is ready.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
}

func TestServerStripeRouteEndToEnd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_abc" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"ch_1"}`))
	}))
	defer upstream.Close()

	_, handler := newTestServer(t, upstream.URL)

	body := `{"accessToken":"sk_test_abc","endpoint":"charges","data":{"amount":100,"currency":"usd"}}`
	req := httptest.NewRequest(http.MethodPost, "/proxy/stripe", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != `{"id":"ch_1"}` {
		t.Errorf("body = %s", rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("CORS headers missing; the dashboard calls this route cross-origin")
	}
}

func TestServerValidationBeforeUpstream(t *testing.T) {
	upstreamCalled := false
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalled = true
	}))
	defer upstream.Close()

	_, handler := newTestServer(t, upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/proxy/stripe", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if upstreamCalled {
		t.Error("upstream contacted on an invalid request")
	}
}

func TestServerPreflight(t *testing.T) {
	_, handler := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/proxy/stripe", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("Access-Control-Allow-Methods missing from preflight response")
	}
}

func TestServerMetricsRoute(t *testing.T) {
	_, handler := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("expected runtime metrics in scrape output")
	}
}

func TestServerUnknownRoute(t *testing.T) {
	_, handler := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestServerBodyLimitEnforced(t *testing.T) {
	upstreamCalled := false
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalled = true
	}))
	defer upstream.Close()

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Server.MaxBodyBytes = 64
	cfg.Services.Stripe.BaseURL = upstream.URL
	cfg.Services.Stripe.SecretKey = "sk_test_default"

	manager := servicefactory.NewManager(cfg, discardLogger())
	t.Cleanup(func() { manager.Close() })

	srv := New(Options{
		Config:   cfg,
		Logger:   discardLogger(),
		Services: manager,
		Version:  "test",
	})
	handler := srv.Handler()

	body := `{"endpoint":"/v1/charges","method":"POST","note":"` + strings.Repeat("x", 256) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/proxy/stripe", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "exceeds maximum size of 64 bytes") {
		t.Errorf("body = %s, want size-limit message", rec.Body.String())
	}
	if upstreamCalled {
		t.Error("upstream contacted for an oversized request")
	}
}
