package source

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/launchdash/pkg/core"
)

var launchColumns = []string{"Flight Number", "Launch Site", "class", "Payload Mass (kg)", "Booster Version Category"}

func TestBaseSQLSource_Close(t *testing.T) {
	tests := []struct {
		name    string
		setupDB bool
	}{
		{name: "close with nil DB", setupDB: false},
		{name: "close with open DB", setupDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLSource{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}

			assert.NoError(t, base.Close())
			assert.Equal(t, tt.setupDB, base.IsConnected())
		})
	}
}

func TestBaseSQLSource_ReadLaunches(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		table     string
		setupMock func(mock sqlmock.Sqlmock)
		want      []core.LaunchRecord
		errMsg    string
		errIs     error
	}{
		{
			name:    "read without connection",
			setupDB: false,
			errMsg:  "database connection not established",
		},
		{
			name:    "default table",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(launchColumns).
					AddRow(1, "CCAFS LC-40", 0, 0.0, "v1.0").
					AddRow(2, "VAFB SLC-4E", 1, 500.0, "v1.1")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "launches"`)).WillReturnRows(rows)
			},
			want: []core.LaunchRecord{
				{Site: "CCAFS LC-40", PayloadMass: 0, Success: false, BoosterCategory: "v1.0"},
				{Site: "VAFB SLC-4E", PayloadMass: 500, Success: true, BoosterCategory: "v1.1"},
			},
		},
		{
			name:    "custom table",
			setupDB: true,
			table:   "spacex.launches",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(launchColumns).AddRow(1, "KSC LC-39A", 1, 2490.0, "FT")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "spacex"."launches"`)).WillReturnRows(rows)
			},
			want: []core.LaunchRecord{
				{Site: "KSC LC-39A", PayloadMass: 2490, Success: true, BoosterCategory: "FT"},
			},
		},
		{
			name:    "missing column",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"Launch Site", "class"}).AddRow("A", 1)
				mock.ExpectQuery("SELECT").WillReturnRows(rows)
			},
			errIs: core.ErrMissingColumn,
		},
		{
			name:    "malformed row",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(launchColumns).
					AddRow(1, "A", 1, 100.0, "FT").
					AddRow(2, "A", 3, 100.0, "FT")
				mock.ExpectQuery("SELECT").WillReturnRows(rows)
			},
			errIs:  core.ErrMalformedRow,
			errMsg: "row 2",
		},
		{
			name:    "query error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)
			},
			errMsg: "failed to execute query",
		},
		{
			name:    "row iteration error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(launchColumns).
					AddRow(1, "A", 1, 100.0, "FT").
					RowError(0, assert.AnError)
				mock.ExpectQuery("SELECT").WillReturnRows(rows)
			},
			errMsg: "error iterating rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := &BaseSQLSource{Cfg: Config{Type: "mock", Table: tt.table}}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()

				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
				base.DB = db
			}

			records, err := base.ReadLaunches(ctx)
			if tt.errMsg != "" || tt.errIs != nil {
				require.Error(t, err)
				assert.Nil(t, records)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
				if tt.errIs != nil {
					assert.True(t, errors.Is(err, tt.errIs), "error %v should wrap %v", err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, records)
		})
	}
}

func TestBaseSQLSource_CustomQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows(launchColumns).AddRow(1, "A", 1, 10.0, "FT")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM read_csv_auto('x.csv')")).WillReturnRows(rows)

	base := &BaseSQLSource{DB: db, Query: "SELECT * FROM read_csv_auto('x.csv')"}
	records, err := base.ReadLaunches(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
