// Package api exposes the mission over HTTP: JSON state and control
// endpoints plus a websocket frame stream for the cockpit client.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Chiawei92/WW1-Skies/pkg/sim"
)

// TelemetryHandler caches the latest HUD telemetry for polling clients.
type TelemetryHandler struct {
	mu        sync.RWMutex
	telemetry sim.Telemetry
}

func NewTelemetryHandler() *TelemetryHandler {
	return &TelemetryHandler{}
}

// UpdateTelemetry implements sim.TelemetrySink.
func (h *TelemetryHandler) UpdateTelemetry(t sim.Telemetry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.telemetry = t
}

func (h *TelemetryHandler) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	resp := h.telemetry
	h.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode telemetry response", "error", err)
	}
}
