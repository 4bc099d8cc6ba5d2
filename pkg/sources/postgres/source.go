// Package postgres provides a PostgreSQL-backed dataset source.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/leapstack-labs/launchdash/pkg/source"
)

// Source implements source.Source for PostgreSQL.
type Source struct {
	source.BaseSQLSource
}

// New creates a new PostgreSQL source instance.
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
	return "postgres"
}

// Open establishes a connection to PostgreSQL using cfg.DSN.
func (s *Source) Open(ctx context.Context, cfg source.Config) error {
	dsn := BuildDSN(cfg)
	if dsn == "" {
		return fmt.Errorf("postgres source requires a dsn")
	}

	s.Logger.Debug("connecting to postgres", slog.String("table", cfg.TableName()))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	s.DB = db
	s.Cfg = cfg
	s.Query = ScanQuery(cfg)
	return nil
}

// ScanQuery returns the statement reading every launch in a stable order.
// PostgreSQL returns unordered rows otherwise, which would reshuffle the
// first-occurrence site order between loads. The order_by option names the
// ordering column; without it rows come back in physical (ctid) order, which
// matches insertion order for tables that are only appended to. Views have
// no ctid and need order_by.
func ScanQuery(cfg source.Config) string {
	order := "ctid"
	if col := strings.TrimSpace(cfg.Options["order_by"]); col != "" {
		order = source.QuoteIdent(col)
	}
	return "SELECT * FROM " + source.QuoteIdent(cfg.TableName()) + " ORDER BY " + order //nolint:gosec // identifiers are quoted
}

// BuildDSN returns the connection string, appending sslmode from options
// when the DSN does not already carry one.
func BuildDSN(cfg source.Config) string {
	dsn := cfg.DSN
	if dsn == "" {
		return ""
	}
	mode, ok := cfg.Options["sslmode"]
	if !ok || strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "sslmode=" + mode
	}
	return dsn + " sslmode=" + mode
}

// Ensure Source implements source.Source interface
var _ source.Source = (*Source)(nil)
