package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Chiawei92/WW1-Skies/pkg/mission"
	"github.com/Chiawei92/WW1-Skies/pkg/sim"
)

// MissionHandler exposes mission state and control endpoints.
type MissionHandler struct {
	mission *mission.Mission
}

func NewMissionHandler(m *mission.Mission) *MissionHandler {
	return &MissionHandler{mission: m}
}

// HandleState returns the full mission frame.
func (h *MissionHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.mission.Frame()); err != nil {
		slog.Error("Failed to encode mission state", "error", err)
	}
}

type pauseRequest struct {
	Paused bool `json:"paused"`
}

// HandlePause freezes or resumes the simulation.
func (h *MissionHandler) HandlePause(w http.ResponseWriter, r *http.Request) {
	var req pauseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	h.mission.SetPaused(req.Paused)
	slog.Info("Mission pause toggled", "paused", req.Paused)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pauseRequest{Paused: h.mission.Paused()})
}

// HandleReset restarts the mission immediately.
func (h *MissionHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.mission.Reset()
	slog.Info("Mission reset via API")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type controlsRequest struct {
	Pitch    float64 `json:"pitch"`
	Roll     float64 `json:"roll"`
	Throttle float64 `json:"throttle"`
	Firing   bool    `json:"firing"`
}

// HandleControls replaces the player control input. Out-of-range values
// are clamped by the flight model.
func (h *MissionHandler) HandleControls(w http.ResponseWriter, r *http.Request) {
	var req controlsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	h.mission.SetControls(sim.Controls{
		Pitch:    req.Pitch,
		Roll:     req.Roll,
		Throttle: req.Throttle,
		Firing:   req.Firing,
	})
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
