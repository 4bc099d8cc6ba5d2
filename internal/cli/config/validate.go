package config

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/launchdash/pkg/source"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Dataset.Validate(); err != nil {
		return err
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if !slices.Contains(LogLevels, c.LogLevel) {
		return fmt.Errorf("log_level must be one of %v, got %q", LogLevels, c.LogLevel)
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("output must be one of %v, got %q", OutputFormats, c.OutputFormat)
	}
	return nil
}

// Validate checks the dataset source settings.
func (d DatasetConfig) Validate() error {
	if d.Source == "" {
		return fmt.Errorf("dataset.source is required")
	}
	if !source.IsRegistered(d.Source) {
		return &source.UnknownSourceError{Type: d.Source, Available: source.List()}
	}

	if d.Debounce < 0 {
		return fmt.Errorf("dataset.debounce must not be negative, got %s", d.Debounce)
	}

	switch d.Source {
	case "postgres":
		if d.DSN == "" {
			return fmt.Errorf("dataset.dsn is required for the %s source", d.Source)
		}
		if d.Watch {
			return fmt.Errorf("dataset.watch is only supported for file sources")
		}
	default:
		if d.Path == "" {
			return fmt.Errorf("dataset.path is required for the %s source", d.Source)
		}
	}
	return nil
}
