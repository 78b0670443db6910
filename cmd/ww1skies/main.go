package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Chiawei92/WW1-Skies/internal/api"
	"github.com/Chiawei92/WW1-Skies/pkg/ai"
	"github.com/Chiawei92/WW1-Skies/pkg/combat"
	"github.com/Chiawei92/WW1-Skies/pkg/config"
	"github.com/Chiawei92/WW1-Skies/pkg/logging"
	"github.com/Chiawei92/WW1-Skies/pkg/mission"
	"github.com/Chiawei92/WW1-Skies/pkg/probe"
	"github.com/Chiawei92/WW1-Skies/pkg/terrain"
	"github.com/Chiawei92/WW1-Skies/pkg/version"
)

var initConfig = flag.Bool("init-config", false, "Generate default config file and exit")

const configPath = "configs/ww1skies.yaml"

func main() {
	flag.Parse()

	// Handle --init-config flag
	if *initConfig {
		if err := config.GenerateDefault(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated: " + configPath)
		return
	}

	if err := run(context.Background(), configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Optional .env for deployment overrides; absence is fine.
	_ = godotenv.Load()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("WW1-Skies Started", "version", version.Version, "difficulty", appCfg.Mission.Difficulty)

	results := probe.RunAll(ctx, slog.Default(), startupProbes(appCfg))
	if err := probe.Verdict(results); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	// Handlers are built before the mission so the sinks exist when the
	// first tick runs.
	telH := api.NewTelemetryHandler()

	m, streamH, err := buildMission(appCfg, telH)
	if err != nil {
		return err
	}
	missionH := api.NewMissionHandler(m)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	srv := api.NewServer(appCfg.Server.Address, telH, missionH, streamH, func() {
		quit <- syscall.SIGTERM
	})

	go tickLoop(ctx, m, streamH, appCfg.Sim.Tick.Seconds())

	return runServerLifecycle(ctx, srv, quit)
}

// startupProbes are sanity checks run before the first tick.
func startupProbes(cfg *config.Config) []probe.Probe {
	return []probe.Probe{
		{
			Name: "Difficulty Table",
			Check: func(context.Context) error {
				_, err := ai.ForTier(ai.Tier(cfg.Mission.Difficulty))
				return err
			},
			Critical: true,
		},
		{
			Name: "Terrain Runway",
			Check: func(context.Context) error {
				if h := terrain.HeightAt(0, 0); h != 0 {
					return fmt.Errorf("runway threshold not flat: height %v", h)
				}
				return nil
			},
			Critical: true,
		},
	}
}

// buildMission assembles the simulation with the websocket stream as
// its event sink.
func buildMission(cfg *config.Config, telH *api.TelemetryHandler) (*mission.Mission, *api.StreamHandler, error) {
	params := mission.Params{
		SquadronSize: cfg.Mission.SquadronSize,
		AllyCount:    cfg.Mission.AllyCount,
		Tier:         ai.Tier(cfg.Mission.Difficulty),
		Combat: combat.Settings{
			PlayerHealth: cfg.Mission.PlayerHealth,
			EnemyHealth:  cfg.Mission.EnemyHealth,
			KillReward:   cfg.Mission.KillReward,
			ResetDelay:   cfg.Mission.ResetDelay.Seconds(),
		},
		TelemetryInterval: cfg.Sim.TelemetryLoop.Seconds(),
		GravityDrop:       cfg.Mission.GravityDrop,
		Seed:              cfg.Mission.Seed,
	}

	// The stream needs the mission and the mission needs the sink, so
	// the sink is bound through an indirection.
	var streamH *api.StreamHandler
	sink := combat.EventSinkFunc(func(e combat.Event) {
		if streamH != nil {
			streamH.Publish(e)
		}
	})

	m, err := mission.New(slog.Default(), params, sink, telH)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build mission: %w", err)
	}
	streamH = api.NewStreamHandler(slog.Default(), m)
	return m, streamH, nil
}

// tickLoop advances the simulation on a fixed wall-clock cadence and
// broadcasts a frame after every step. Host stalls longer than the
// mission's step cap are truncated inside Step.
func tickLoop(ctx context.Context, m *mission.Mission, streamH *api.StreamHandler, tick float64) {
	ticker := time.NewTicker(time.Duration(tick * float64(time.Second)))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			m.Step(dt)
			streamH.BroadcastFrame(m.Frame())
		}
	}
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
