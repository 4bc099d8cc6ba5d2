package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/launchdash/internal/cli/output"
	"github.com/leapstack-labs/launchdash/internal/dataset"
	"github.com/leapstack-labs/launchdash/pkg/source"
	csvsource "github.com/leapstack-labs/launchdash/pkg/sources/csv"
	"github.com/leapstack-labs/launchdash/pkg/sources/sqlite"
)

// DefaultImportDB is the database written when --db is not given.
const DefaultImportDB = "launches.db"

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a launch CSV into a SQLite database",
		Long: `Validate a launch CSV and copy its records into a SQLite database.

The database schema is created or upgraded first. Existing launches in the
database are replaced. Serve the result with --source sqlite.`,
		Example: `  # Import into launches.db
  launchdash import spacex_launch_dash.csv

  # Import and serve
  launchdash import spacex_launch_dash.csv --db data/spacex.db
  launchdash serve --source sqlite --dataset data/spacex.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			return runImport(cmd.Context(), cc, args[0], dbPath)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", DefaultImportDB, "SQLite database to write")

	return cmd
}

func runImport(ctx context.Context, cc *CommandContext, csvPath, dbPath string) error {
	ds, err := dataset.Load(ctx, csvsource.New(cc.Logger), source.Config{Type: "csv", Path: csvPath}, cc.Logger)
	if err != nil {
		return err
	}

	db, err := sqlite.OpenDB(ctx, dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := sqlite.Migrate(ctx, db); err != nil {
		return err
	}
	if err := sqlite.WriteLaunches(ctx, db, ds.Records()); err != nil {
		return err
	}

	version, err := sqlite.MigrationVersion(ctx, db)
	if err != nil {
		return err
	}
	cc.Logger.Debug("launches imported", "db", dbPath, "records", ds.Len(), "schema_version", version)

	return cc.Renderer.Render(output.Table{
		Header: []any{"Database", "Launches", "Sites", "Schema Version"},
		Rows:   [][]any{{dbPath, ds.Len(), len(ds.Sites()), version}},
	}, map[string]any{
		"database":       dbPath,
		"launches":       ds.Len(),
		"sites":          ds.Sites(),
		"schema_version": version,
	})
}
