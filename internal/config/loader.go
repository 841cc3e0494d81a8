package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"camerad/internal/common/fsutil"
)

// SimDevice describes one simulated capture device for the sim backend.
type SimDevice struct {
	UID           string `json:"uid" yaml:"uid" toml:"uid"`
	Name          string `json:"name" yaml:"name" toml:"name"`
	Suspended     bool   `json:"suspended" yaml:"suspended" toml:"suspended"`
	Disconnected  bool   `json:"disconnected" yaml:"disconnected" toml:"disconnected"`
	LockHeld      bool   `json:"lock_held" yaml:"lock_held" toml:"lock_held"`
	StartFailures int    `json:"start_failures" yaml:"start_failures" toml:"start_failures"`
}

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr    string `json:"addr" yaml:"addr" toml:"addr"`
	Backend string `json:"backend" yaml:"backend" toml:"backend"` // sim | gocv

	// Session lifecycle tunables.
	MaxStartAttempts int `json:"max_start_attempts" yaml:"max_start_attempts" toml:"max_start_attempts"`
	RetryDelayMS     int `json:"retry_delay_ms" yaml:"retry_delay_ms" toml:"retry_delay_ms"`
	SettleDelayMS    int `json:"settle_delay_ms" yaml:"settle_delay_ms" toml:"settle_delay_ms"`
	LogLines         int `json:"log_lines" yaml:"log_lines" toml:"log_lines"`

	// DeselectOnClose removes a device from the selection when its window
	// closes.
	DeselectOnClose bool `json:"deselect_on_close" yaml:"deselect_on_close" toml:"deselect_on_close"`

	// CORS (opt-in).
	CORSEnabled bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`

	// Devices exposed by the sim backend. Empty means a small default set.
	SimDevices []SimDevice `json:"sim_devices" yaml:"sim_devices" toml:"sim_devices"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	expanded, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(expanded)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(expanded)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
