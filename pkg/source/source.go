// Package source provides the dataset source interface and shared helpers
// for reading launch records.
//
// This package contains the public contract that all dataset sources must implement.
// Concrete source implementations are in pkg/sources/ subdirectories.
package source

import (
	"context"

	"github.com/leapstack-labs/launchdash/pkg/core"
)

// Config is an alias for core.SourceConfig.
type Config = core.SourceConfig

// Source defines the interface that all dataset sources must implement.
type Source interface {
	// Name returns the registered source name.
	Name() string

	// Open prepares the source for reading using the provided config.
	Open(ctx context.Context, cfg Config) error

	// ReadLaunches returns every launch record in source order.
	ReadLaunches(ctx context.Context) ([]core.LaunchRecord, error)

	// Close releases resources held by the source.
	Close() error
}
