// Package duckdb provides a DuckDB-backed dataset source.
//
// This file registers the DuckDB source with the source registry.
// Import this package with a blank identifier to register the source:
//
//	import _ "github.com/leapstack-labs/launchdash/pkg/sources/duckdb"
package duckdb

import (
	"log/slog"

	"github.com/leapstack-labs/launchdash/pkg/source"
)

func init() {
	source.Register("duckdb", func(logger *slog.Logger) source.Source { return New(logger) })
}
