// Package config loads optalcp client configuration: solver discovery
// defaults, CLI display preferences, and logging toggles. It mirrors the
// layered YAML-file-plus-environment-override style used across the rest
// of the client.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"optalcp/internal/logging"
)

// Config holds optalcp client configuration.
type Config struct {
	// Name is the client name sent in the handshake message.
	Name string `yaml:"name"`
	// Version is the client version sent in the handshake message.
	Version string `yaml:"version"`

	Solver  SolverConfig  `yaml:"solver"`
	CLI     CLIConfig     `yaml:"cli"`
	Logging LoggingConfig `yaml:"logging"`
}

// SolverConfig configures how the external solver binary or endpoint is
// located (see Solver discovery, spec §6.5).
type SolverConfig struct {
	// Path is an explicit override: absolute path, bare executable name, or
	// a ws(s)://, http(s):// endpoint. Empty means "use discovery order".
	Path string `yaml:"path"`
	// Packages is loaded from the file but not read by solver discovery,
	// which searches its own fixed list of installable package names.
	Packages []string `yaml:"packages"`
	// ConnectTimeoutSeconds is loaded from the file but not read by the
	// solver package; Solver.Solve applies no connect timeout of its own.
	ConnectTimeoutSeconds int `yaml:"connect_timeout_seconds"`
}

// CLIConfig holds command-line settings (colors, usage banner). They are
// loaded from the file; the command-line code does not read them.
type CLIConfig struct {
	Colors     bool   `yaml:"colors"`
	UsageBanner string `yaml:"usage_banner"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level" json:"level,omitempty"`
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode,omitempty"`
	JSONFormat bool            `yaml:"json_format" json:"json_format,omitempty"`
	Categories map[string]bool `yaml:"categories" json:"categories,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "optalcp-go",
		Version: "1.0.0",

		Solver: SolverConfig{
			Packages:              []string{"@scheduleopt/optalcp-solver", "optalcp-solver"},
			ConnectTimeoutSeconds: 30,
		},

		CLI: CLIConfig{
			Colors: true,
		},

		Logging: LoggingConfig{
			Level:     "info",
			DebugMode: false,
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults
// (plus environment overrides) when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.BootDebug("loading config from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Boot("config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	logging.Boot("config loaded: solver=%q", cfg.Solver.Path)
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// applyEnvOverrides lets OPTALCP_SOLVER override the configured solver
// path, consistent with the environment variable precedence in spec §6.4.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OPTALCP_SOLVER"); v != "" && c.Solver.Path == "" {
		c.Solver.Path = v
	}
}
