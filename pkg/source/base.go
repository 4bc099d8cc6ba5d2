package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/launchdash/pkg/core"
)

// BaseSQLSource provides common database/sql functionality for sources.
// Embed this struct in concrete source implementations to get standard
// Close, ReadLaunches and ReadQuery implementations.
type BaseSQLSource struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger

	// Query overrides the default table scan when set.
	Query string
}

// Close closes the database connection.
func (b *BaseSQLSource) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing dataset source connection", "source", b.Cfg.Location())
		}
		return b.DB.Close()
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLSource) IsConnected() bool {
	return b.DB != nil
}

// ReadLaunches reads every launch record using Query, or a full scan of the
// configured table when Query is empty.
func (b *BaseSQLSource) ReadLaunches(ctx context.Context) ([]core.LaunchRecord, error) {
	query := b.Query
	if query == "" {
		query = "SELECT * FROM " + QuoteIdent(b.Cfg.TableName()) //nolint:gosec // identifier is quoted
	}
	return b.ReadQuery(ctx, query)
}

// ReadQuery runs a query and converts its rows into launch records.
// The result must carry the required columns by name; other columns are ignored.
func (b *BaseSQLSource) ReadQuery(ctx context.Context, query string) ([]core.LaunchRecord, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rows, err := b.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	idx, err := IndexColumns(cols)
	if err != nil {
		return nil, err
	}

	var records []core.LaunchRecord
	values := make([]any, len(cols))
	valuePtrs := make([]any, len(cols))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	row := 0
	for rows.Next() {
		row++
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", row, err)
		}
		rec, err := ParseRow(row, values, idx)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if b.Logger != nil {
		b.Logger.Debug("read launch records", "source", b.Cfg.Location(), "rows", len(records))
	}
	return records, nil
}

// QuoteIdent quotes a SQL identifier with double quotes.
// Dotted names are quoted part by part so schema.table keeps working.
func QuoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}

// QuoteLiteral quotes a SQL string literal with single quotes.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
