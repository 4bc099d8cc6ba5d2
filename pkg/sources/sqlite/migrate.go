package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/leapstack-labs/launchdash/pkg/core"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate creates or upgrades the launches schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// MigrationVersion returns the current migration version.
func MigrationVersion(ctx context.Context, db *sql.DB) (int64, error) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite"); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}

	return goose.GetDBVersionContext(ctx, db)
}

// WriteLaunches replaces the contents of the launches table with records,
// preserving their order.
func WriteLaunches(ctx context.Context, db *sql.DB, records []core.LaunchRecord) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM launches`); err != nil {
		return fmt.Errorf("failed to clear launches: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO launches ("Launch Site", "Payload Mass (kg)", "class", "Booster Version Category")
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, rec := range records {
		if _, err = stmt.ExecContext(ctx, rec.Site, rec.PayloadMass, rec.Class(), rec.BoosterCategory); err != nil {
			return fmt.Errorf("failed to insert launch %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit launches: %w", err)
	}
	return nil
}
