// Package postgres provides a PostgreSQL-backed dataset source.
//
// This file registers the PostgreSQL source with the source registry.
// Import this package with a blank identifier to register the source:
//
//	import _ "github.com/leapstack-labs/launchdash/pkg/sources/postgres"
package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/launchdash/pkg/source"
)

func init() {
	source.Register("postgres", func(logger *slog.Logger) source.Source { return New(logger) })
}
