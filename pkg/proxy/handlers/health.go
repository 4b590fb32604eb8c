package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthHandler handles liveness probes on GET /health.
type HealthHandler struct {
	// Version is the build version string reported in the response.
	Version string
}

// NewHealthHandler creates a new liveness handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{Version: version}
}

// ServeHTTP implements http.Handler for liveness checks.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status":    "ok",
		"name":      "relay",
		"version":   h.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": []string{
			"/proxy/stripe",
			"/proxy/qbo/token",
			"/proxy/qbo/refresh",
			"/proxy/qbo/data-operation",
			"/proxy/backend",
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// ReadyHandler handles readiness probes on GET /ready.
type ReadyHandler struct {
	Reporter HealthReporter
}

// NewReadyHandler creates a new readiness handler.
func NewReadyHandler(reporter HealthReporter) *ReadyHandler {
	return &ReadyHandler{Reporter: reporter}
}

// ServeHTTP implements http.Handler for readiness checks.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	states := h.Reporter.Health()
	healthyCount := 0
	for _, state := range states {
		if state.Healthy {
			healthyCount++
		}
	}

	// Ready as long as at least one upstream is reachable; a single
	// misbehaving service must not take the whole relay out of rotation.
	status := "ready"
	statusCode := http.StatusOK
	if healthyCount == 0 {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	response := map[string]interface{}{
		"status": status,
		"services": map[string]interface{}{
			"healthy": healthyCount,
			"total":   len(states),
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// ServiceHealthHandler provides per-service health detail on
// GET /health/services.
type ServiceHealthHandler struct {
	Reporter HealthReporter
}

// NewServiceHealthHandler creates a new per-service health handler.
func NewServiceHealthHandler(reporter HealthReporter) *ServiceHealthHandler {
	return &ServiceHealthHandler{Reporter: reporter}
}

// ServeHTTP implements http.Handler for detailed service health.
func (h *ServiceHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	states := h.Reporter.Health()

	servicesHealth := make(map[string]interface{}, len(states))
	for name, state := range states {
		entry := map[string]interface{}{
			"healthy":              state.Healthy,
			"consecutive_failures": state.ConsecutiveFailures,
		}
		if !state.LastCheck.IsZero() {
			entry["last_check"] = state.LastCheck.UTC().Format(time.RFC3339)
		}
		if state.LastError != "" {
			entry["last_error"] = state.LastError
		}
		servicesHealth[name] = entry
	}

	response := map[string]interface{}{
		"services":  servicesHealth,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
