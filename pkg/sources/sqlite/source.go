// Package sqlite provides a SQLite-backed dataset source.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/launchdash/pkg/source"

	_ "modernc.org/sqlite" // sqlite driver
)

// Source implements source.Source for SQLite.
type Source struct {
	source.BaseSQLSource
}

// New creates a new SQLite source instance.
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
	return "sqlite"
}

// Open opens the SQLite database at cfg.Path.
func (s *Source) Open(ctx context.Context, cfg source.Config) error {
	if cfg.Path == "" {
		return fmt.Errorf("sqlite source requires a path")
	}

	db, err := OpenDB(ctx, cfg.Path)
	if err != nil {
		return err
	}

	s.DB = db
	s.Cfg = cfg
	// rowid order is insertion order, which keeps first-occurrence site ordering stable.
	s.Query = "SELECT * FROM " + source.QuoteIdent(cfg.TableName()) + " ORDER BY rowid" //nolint:gosec // identifier is quoted
	return nil
}

// OpenDB opens and pings a SQLite database.
// Use ":memory:" for an in-memory database.
func OpenDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases visible to every query.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}

// Ensure Source implements source.Source interface
var _ source.Source = (*Source)(nil)
