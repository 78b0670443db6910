package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Sim     SimConfig     `yaml:"sim"`
	Mission MissionConfig `yaml:"mission"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// SimConfig holds fixed-step loop settings.
type SimConfig struct {
	// Tick is the target interval between simulation steps.
	Tick Duration `yaml:"tick"`
	// TelemetryLoop is the interval between telemetry publishes.
	TelemetryLoop Duration `yaml:"telemetry_loop"`
}

// MissionConfig holds the combat mission setup.
type MissionConfig struct {
	SquadronSize int    `yaml:"squadron_size"`
	AllyCount    int    `yaml:"ally_count"`
	Difficulty   string `yaml:"difficulty"`

	PlayerHealth int      `yaml:"player_health"`
	EnemyHealth  int      `yaml:"enemy_health"`
	KillReward   int      `yaml:"kill_reward"`
	ResetDelay   Duration `yaml:"reset_delay"`

	// GravityDrop makes the player's rounds arc downward in flight.
	GravityDrop bool  `yaml:"gravity_drop"`
	Seed        int64 `yaml:"seed"`
}

var validDifficulties = map[string]bool{
	"rookie":  true,
	"veteran": true,
	"ace":     true,
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "localhost:1917",
		},
		Log: LogConfig{
			Path:  "./logs/server.log",
			Level: "INFO",
		},
		Sim: SimConfig{
			Tick:          Duration(20 * time.Millisecond),
			TelemetryLoop: Duration(100 * time.Millisecond),
		},
		Mission: MissionConfig{
			SquadronSize: 4,
			AllyCount:    2,
			Difficulty:   "veteran",
			PlayerHealth: 10,
			EnemyHealth:  3,
			KillReward:   100,
			ResetDelay:   Duration(3 * time.Second),
			GravityDrop:  true,
			Seed:         1,
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does
// NOT save back to disk, preserving user formatting and comments.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to save config file: %w", err)
		}
	}

	// Env overrides the file so deployments can rebind without editing it.
	if addr := os.Getenv("WW1SKIES_ADDR"); addr != "" {
		cfg.Server.Address = addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	if !validDifficulties[c.Mission.Difficulty] {
		return fmt.Errorf("invalid difficulty %q: must be rookie, veteran or ace", c.Mission.Difficulty)
	}
	if c.Mission.SquadronSize < 1 {
		return fmt.Errorf("squadron_size must be at least 1, got %d", c.Mission.SquadronSize)
	}
	if c.Mission.AllyCount < 0 {
		return fmt.Errorf("ally_count must not be negative, got %d", c.Mission.AllyCount)
	}
	if c.Mission.PlayerHealth < 1 || c.Mission.EnemyHealth < 1 {
		return fmt.Errorf("health values must be at least 1")
	}
	if c.Sim.Tick <= 0 {
		return fmt.Errorf("sim tick must be positive")
	}
	return nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# WW1-Skies Configuration
# -----------------------
# Supported Duration units: ns, us (or µs), ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	// Inject comments for enum fields.
	reDiff := regexp.MustCompile(`(?m)^(\s+)difficulty:`)
	data = reDiff.ReplaceAll(data, []byte("${1}# Options: rookie, veteran, ace\n${1}difficulty:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return Save(path, DefaultConfig())
}
