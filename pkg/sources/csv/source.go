// Package csv provides a dataset source that reads launch records from a CSV file.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/launchdash/pkg/core"
	"github.com/leapstack-labs/launchdash/pkg/source"
)

// Source implements source.Source for CSV files.
type Source struct {
	cfg    source.Config
	logger *slog.Logger
}

// New creates a new CSV source instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{logger: logger}
}

// Name returns the registered source name.
func (s *Source) Name() string {
	return "csv"
}

// Open checks that the configured file exists.
func (s *Source) Open(_ context.Context, cfg source.Config) error {
	if cfg.Path == "" {
		return fmt.Errorf("csv source requires a path")
	}
	info, err := os.Stat(cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to open csv file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("csv path %s is a directory", cfg.Path)
	}
	s.cfg = cfg
	return nil
}

// ReadLaunches parses the file. The first row must be a header naming the required columns.
func (s *Source) ReadLaunches(ctx context.Context) ([]core.LaunchRecord, error) {
	if s.cfg.Path == "" {
		return nil, fmt.Errorf("csv source not opened")
	}

	f, err := os.Open(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := Parse(ctx, f)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("read launch records", "source", s.cfg.Location(), "rows", len(records))
	return records, nil
}

// Close is a no-op; the file is opened per read.
func (s *Source) Close() error {
	return nil
}

// Parse reads launch records from CSV content.
func Parse(ctx context.Context, r io.Reader) ([]core.LaunchRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, core.MissingColumnError(core.ColumnSite)
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	idx, err := source.IndexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []core.LaunchRecord
	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, core.MalformedRowError(row, err.Error())
		}
		rec, err := source.ParseRow(row, source.StringValues(fields), idx)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Ensure Source implements source.Source interface
var _ source.Source = (*Source)(nil)
