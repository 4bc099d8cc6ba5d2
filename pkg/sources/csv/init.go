// Package csv provides a dataset source that reads launch records from a CSV file.
//
// This file registers the CSV source with the source registry.
// Import this package with a blank identifier to register the source:
//
//	import _ "github.com/leapstack-labs/launchdash/pkg/sources/csv"
package csv

import (
	"log/slog"

	"github.com/leapstack-labs/launchdash/pkg/source"
)

func init() {
	source.Register("csv", func(logger *slog.Logger) source.Source { return New(logger) })
}
