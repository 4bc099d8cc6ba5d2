// Package config provides configuration management for the launchdash CLI.
package config

import (
	"time"

	"github.com/leapstack-labs/launchdash/pkg/core"
)

// DatasetConfig selects where launch records are loaded from.
type DatasetConfig struct {
	Source string `koanf:"source"`
	Path   string `koanf:"path"`
	DSN    string `koanf:"dsn"`
	Table  string `koanf:"table"`
	Watch  bool   `koanf:"watch"`
	// Debounce is how long the watcher waits after the last file event before reloading.
	Debounce time.Duration     `koanf:"debounce"`
	Options  map[string]string `koanf:"options"`
}

// SourceConfig converts the dataset settings into a source configuration.
func (d DatasetConfig) SourceConfig() core.SourceConfig {
	return core.SourceConfig{
		Type:    d.Source,
		Path:    d.Path,
		DSN:     d.DSN,
		Table:   d.Table,
		Options: d.Options,
	}
}

// ServerConfig holds configuration for the dashboard server.
type ServerConfig struct {
	Host          string `koanf:"host"`
	Port          int    `koanf:"port"`
	Debug         bool   `koanf:"debug"`
	Open          bool   `koanf:"open"`
	SessionSecret string `koanf:"session_secret"`
}

// Config holds all CLI configuration options.
type Config struct {
	Dataset      DatasetConfig `koanf:"dataset"`
	Server       ServerConfig  `koanf:"server"`
	LogLevel     string        `koanf:"log_level"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`

	// ConfigDir is the directory of the config file used, if any.
	ConfigDir string `koanf:"-"`
}

// Default configuration values
const (
	DefaultSource        = "csv"
	DefaultDatasetPath   = "spacex_launch_dash.csv"
	DefaultHost          = "127.0.0.1"
	DefaultPort          = 8050
	DefaultLogLevel      = "info"
	DefaultOutput        = "auto"                                       // Auto-detect: TTY=table, non-TTY=markdown
	DefaultSessionSecret = "launchdash-dev-secret-change-in-production" //nolint:gosec
)

// Output formats accepted by the output setting.
var OutputFormats = []string{"auto", "table", "markdown", "json", "yaml"}

// LogLevels accepted by the log_level setting.
var LogLevels = []string{"debug", "info", "warn", "error"}
