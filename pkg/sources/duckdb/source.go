// Package duckdb provides a DuckDB-backed dataset source.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/launchdash/pkg/source"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Source implements source.Source for DuckDB.
//
// A path ending in .csv is read through read_csv_auto with an in-memory
// database; any other path is opened as a DuckDB database and the configured
// table is scanned.
type Source struct {
	source.BaseSQLSource
}

// New creates a new DuckDB source instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{
		BaseSQLSource: source.BaseSQLSource{Logger: logger},
	}
}

// Name returns the registered source name.
func (s *Source) Name() string {
	return "duckdb"
}

// Open establishes a connection to DuckDB.
func (s *Source) Open(ctx context.Context, cfg source.Config) error {
	dsn := cfg.Path
	query := ""

	if IsCSVPath(cfg.Path) {
		absPath, err := filepath.Abs(cfg.Path)
		if err != nil {
			return fmt.Errorf("failed to get absolute path: %w", err)
		}
		dsn = ""
		query = CSVQuery(absPath)
	}

	s.Logger.Debug("opening duckdb source", "path", cfg.Path, "csv", query != "")

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	s.DB = db
	s.Cfg = cfg
	s.Query = query
	return nil
}

// IsCSVPath reports whether path names a CSV file rather than a database.
func IsCSVPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// CSVQuery returns the statement reading a CSV file with automatic schema detection.
func CSVQuery(absPath string) string {
	return fmt.Sprintf("SELECT * FROM read_csv_auto(%s, header=true)", source.QuoteLiteral(absPath))
}

// Ensure Source implements source.Source interface
var _ source.Source = (*Source)(nil)
