package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Chiawei92/WW1-Skies/pkg/version"
)

// NewServer creates and configures the HTTP server.
// It accepts handlers for all API endpoints and a shutdownFunc for
// graceful shutdown.
func NewServer(addr string, tel *TelemetryHandler, missionH *MissionHandler, stream *StreamHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health Endpoint
	mux.HandleFunc("GET /health", handleHealth)

	// 2. Telemetry Endpoint
	mux.HandleFunc("GET /api/telemetry", tel.handleTelemetry)

	// 2b. Version Endpoint
	mux.HandleFunc("GET /api/version", handleVersion)

	// 2c. Mission Endpoints
	mux.HandleFunc("GET /api/mission", missionH.HandleState)
	mux.HandleFunc("POST /api/mission/pause", missionH.HandlePause)
	mux.HandleFunc("POST /api/mission/reset", missionH.HandleReset)
	mux.HandleFunc("POST /api/mission/controls", missionH.HandleControls)

	// 2d. Logs Endpoint
	mux.HandleFunc("GET /api/log/latest", handleLatestLog)

	// 2e. Frame Stream
	mux.HandleFunc("GET /ws", stream.HandleWS)

	// 3. Shutdown Endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
