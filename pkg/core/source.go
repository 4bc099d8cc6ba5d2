package core

// SourceConfig holds configuration for opening a dataset source.
type SourceConfig struct {
	// Type is the registered source name (csv, duckdb, sqlite, postgres).
	Type string
	// Path is a file path for file-backed sources.
	Path string
	// DSN is a connection string for server-backed sources.
	DSN string
	// Table is the table queried by SQL sources.
	Table   string
	Options map[string]string
}

// DefaultTable is the table SQL sources read when none is configured.
const DefaultTable = "launches"

// TableName returns the configured table or DefaultTable.
func (c SourceConfig) TableName() string {
	if c.Table == "" {
		return DefaultTable
	}
	return c.Table
}

// Location returns a human-readable description of where the source reads from.
func (c SourceConfig) Location() string {
	switch {
	case c.Path != "":
		return c.Type + ":" + c.Path
	case c.DSN != "":
		return c.Type + ":" + c.TableName()
	default:
		return c.Type
	}
}
