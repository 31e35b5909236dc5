// Package config holds all sleighwatch configuration: flight tunables,
// compliance cadence, and the drafting collaborator credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all sleighwatch configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Drafting collaborator (LLM backend)
	LLM LLMConfig `yaml:"llm"`

	// Flight simulation tunables
	Flight FlightConfig `yaml:"flight"`

	// Compliance interrupt cadence
	Compliance ComplianceConfig `yaml:"compliance"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the hosted drafting collaborator.
type LLMConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// FlightConfig configures the autopilot and waypoint generation.
type FlightConfig struct {
	WaypointCount int     `yaml:"waypoint_count"`
	Seed          int64   `yaml:"seed"`            // waypoint placement seed, fixed for reproducible maps
	Speed         float64 `yaml:"speed"`           // plane units per second
	ArrivalRadius float64 `yaml:"arrival_radius"`  // plane units
	MaxTickStep   string  `yaml:"max_tick_step"`   // dt clamp per animation tick
	FeedWindow    int     `yaml:"feed_window"`     // trailing feed entries kept
}

// ComplianceConfig configures the interrupt scheduler and session.
type ComplianceConfig struct {
	FirstDelay    string `yaml:"first_delay"`    // delay before the first event
	Interval      string `yaml:"interval"`       // cadence after that
	ResetDelay    string `yaml:"reset_delay"`    // submitted -> idle acknowledgment window
	ValidationURL string `yaml:"validation_url"` // validation collaborator endpoint
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "sleighwatch",
		Version: "1.0.0",
		LLM: LLMConfig{
			Model:   "gemini-3-flash-preview",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Timeout: "10m",
		},
		Flight: FlightConfig{
			WaypointCount: 24,
			Seed:          20241224,
			Speed:         22,
			ArrivalRadius: 1.4,
			MaxTickStep:   "50ms",
			FeedWindow:    100,
		},
		Compliance: ComplianceConfig{
			FirstDelay:    "5s",
			Interval:      "20s",
			ResetDelay:    "1600ms",
			ValidationURL: "https://workshop.northpole.example/validate",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the conventional config location under the
// user's home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".sleighwatch", "config.yaml")
}

// Load reads config from path, applies defaults for missing fields and
// environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// applyEnvOverrides lets environment variables win over file values.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("SLEIGHWATCH_API_KEY"); key != "" {
		c.LLM.APIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if model := os.Getenv("SLEIGHWATCH_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if url := os.Getenv("SLEIGHWATCH_VALIDATION_URL"); url != "" {
		c.Compliance.ValidationURL = url
	}
	if level := os.Getenv("SLEIGHWATCH_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate checks that the config is usable for an interactive session.
// The API key is required: the drafting client refuses to construct
// without it.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("no API key configured: set llm.api_key or SLEIGHWATCH_API_KEY/GEMINI_API_KEY")
	}
	if c.Flight.WaypointCount <= 0 {
		return fmt.Errorf("flight.waypoint_count must be positive, got %d", c.Flight.WaypointCount)
	}
	if c.Flight.Speed <= 0 {
		return fmt.Errorf("flight.speed must be positive, got %v", c.Flight.Speed)
	}
	if _, err := time.ParseDuration(c.Flight.MaxTickStep); err != nil {
		return fmt.Errorf("flight.max_tick_step: %w", err)
	}
	for name, v := range map[string]string{
		"compliance.first_delay": c.Compliance.FirstDelay,
		"compliance.interval":    c.Compliance.Interval,
		"compliance.reset_delay": c.Compliance.ResetDelay,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Duration helpers. Invalid strings fall back to defaults so callers
// never tick at a zero interval.

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// MaxTickStepDuration returns the per-tick dt clamp.
func (c FlightConfig) MaxTickStepDuration() time.Duration {
	return parseDurationOr(c.MaxTickStep, 50*time.Millisecond)
}

// FirstDelayDuration returns the delay before the first compliance event.
func (c ComplianceConfig) FirstDelayDuration() time.Duration {
	return parseDurationOr(c.FirstDelay, 5*time.Second)
}

// IntervalDuration returns the steady-state compliance cadence.
func (c ComplianceConfig) IntervalDuration() time.Duration {
	return parseDurationOr(c.Interval, 20*time.Second)
}

// ResetDelayDuration returns the submitted->idle acknowledgment window.
func (c ComplianceConfig) ResetDelayDuration() time.Duration {
	return parseDurationOr(c.ResetDelay, 1600*time.Millisecond)
}

// TimeoutDuration returns the drafting HTTP client timeout.
func (c LLMConfig) TimeoutDuration() time.Duration {
	return parseDurationOr(c.Timeout, 10*time.Minute)
}
