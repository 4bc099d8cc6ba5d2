package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/leapstack-labs/launchdash/pkg/core"
)

// ScenarioRecords returns two sites: A with 3 successes and 1 failure,
// B with 0 successes and 2 failures.
func ScenarioRecords() []core.LaunchRecord {
	return []core.LaunchRecord{
		{Site: "A", PayloadMass: 500, Success: true, BoosterCategory: "v1.0"},
		{Site: "B", PayloadMass: 1200, Success: false, BoosterCategory: "v1.1"},
		{Site: "A", PayloadMass: 2500, Success: false, BoosterCategory: "FT"},
		{Site: "A", PayloadMass: 4000, Success: true, BoosterCategory: "FT"},
		{Site: "B", PayloadMass: 6800, Success: false, BoosterCategory: "B4"},
		{Site: "A", PayloadMass: 9600, Success: true, BoosterCategory: "B5"},
	}
}

// SpaceXRecords returns a small sample shaped like the SpaceX launch dataset,
// including payloads at both slider bounds.
func SpaceXRecords() []core.LaunchRecord {
	return []core.LaunchRecord{
		{Site: "CCAFS LC-40", PayloadMass: 0, Success: false, BoosterCategory: "v1.0"},
		{Site: "CCAFS LC-40", PayloadMass: 525, Success: false, BoosterCategory: "v1.0"},
		{Site: "VAFB SLC-4E", PayloadMass: 500, Success: false, BoosterCategory: "v1.1"},
		{Site: "KSC LC-39A", PayloadMass: 2490, Success: true, BoosterCategory: "FT"},
		{Site: "CCAFS SLC-40", PayloadMass: 3669, Success: true, BoosterCategory: "FT"},
		{Site: "KSC LC-39A", PayloadMass: 5300, Success: false, BoosterCategory: "FT"},
		{Site: "VAFB SLC-4E", PayloadMass: 9600, Success: true, BoosterCategory: "B4"},
		{Site: "CCAFS SLC-40", PayloadMass: 10000, Success: true, BoosterCategory: "B5"},
	}
}

// LaunchCSV renders records as CSV with the dataset's column headers.
func LaunchCSV(records []core.LaunchRecord) string {
	var b strings.Builder
	b.WriteString("Flight Number,Launch Site,class,Payload Mass (kg),Booster Version Category\n")
	for i, rec := range records {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte(',')
		b.WriteString(rec.Site)
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(rec.Class()))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(rec.PayloadMass, 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(rec.BoosterCategory)
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteLaunchCSV writes records to a CSV file in a temp directory and returns its path.
func WriteLaunchCSV(t testing.TB, records []core.LaunchRecord) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "spacex_launch_dash.csv")
	if err := os.WriteFile(path, []byte(LaunchCSV(records)), 0600); err != nil {
		t.Fatalf("failed to write launch csv: %v", err)
	}
	return path
}
