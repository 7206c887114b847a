package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the findash dashboard.
type Config struct {
	Backend   Backend   `yaml:"backend"`
	Storage   Storage   `yaml:"storage"`
	Logging   Logging   `yaml:"logging"`
	Dashboard Dashboard `yaml:"dashboard"`
}

// Backend holds the analysis backend endpoint configuration.
type Backend struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSec     int    `yaml:"timeout_sec"`
	StartupWaitSec int    `yaml:"startup_wait_sec"`
}

// Storage holds paths for local persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Dashboard holds refresh intervals for the agents panel.
type Dashboard struct {
	HealthIntervalSec   int `yaml:"health_interval_sec"`
	WorkflowIntervalSec int `yaml:"workflow_interval_sec"`
}

// Timeout returns the per-request HTTP timeout. Research calls can run for
// minutes on the backend, so the default is generous.
func (b Backend) Timeout() time.Duration {
	return time.Duration(b.TimeoutSec) * time.Second
}

// HealthInterval returns the health poll interval.
func (d Dashboard) HealthInterval() time.Duration {
	return time.Duration(d.HealthIntervalSec) * time.Second
}

// WorkflowInterval returns the workflow status poll interval.
func (d Dashboard) WorkflowInterval() time.Duration {
	return time.Duration(d.WorkflowIntervalSec) * time.Second
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns a configuration that works with no config file: a local
// backend on its standard port and state under the user's home directory.
func Default() *Config {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".findash")
	return &Config{
		Backend: Backend{
			BaseURL:        "http://localhost:8000",
			TimeoutSec:     120,
			StartupWaitSec: 10,
		},
		Storage: Storage{
			DataDir:    dataDir,
			SQLitePath: filepath.Join(dataDir, "findash.db"),
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Dashboard: Dashboard{
			HealthIntervalSec:   10,
			WorkflowIntervalSec: 30,
		},
	}
}

// Load reads the YAML configuration file at the given path, parses it over
// the defaults, and then applies environment variable overrides. An empty
// path skips the file entirely and returns defaults plus env overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FINDASH_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}

	if v := os.Getenv("FINDASH_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}

	if v := os.Getenv("FINDASH_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
