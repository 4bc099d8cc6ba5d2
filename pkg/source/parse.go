package source

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leapstack-labs/launchdash/pkg/core"
)

// ColumnIndex maps each required column to its position in a header row.
type ColumnIndex struct {
	Site            int
	PayloadMass     int
	Class           int
	BoosterCategory int
}

// IndexColumns locates the required columns in a header.
// Names are compared after trimming whitespace; extra columns are ignored.
func IndexColumns(header []string) (ColumnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}

	lookup := func(column string) (int, error) {
		i, ok := positions[column]
		if !ok {
			return 0, core.MissingColumnError(column)
		}
		return i, nil
	}

	var idx ColumnIndex
	var err error
	if idx.Site, err = lookup(core.ColumnSite); err != nil {
		return idx, err
	}
	if idx.PayloadMass, err = lookup(core.ColumnPayloadMass); err != nil {
		return idx, err
	}
	if idx.Class, err = lookup(core.ColumnClass); err != nil {
		return idx, err
	}
	if idx.BoosterCategory, err = lookup(core.ColumnBoosterCategory); err != nil {
		return idx, err
	}
	return idx, nil
}

// width returns the minimum number of fields a row needs.
func (idx ColumnIndex) width() int {
	return max(idx.Site, idx.PayloadMass, idx.Class, idx.BoosterCategory) + 1
}

// ParseRow converts one row of values into a launch record.
// Values may be strings, []byte or the numeric types database drivers return.
// Row numbers start at 1 and are only used for error messages.
func ParseRow(row int, values []any, idx ColumnIndex) (core.LaunchRecord, error) {
	if len(values) < idx.width() {
		return core.LaunchRecord{}, core.MalformedRowError(row, fmt.Sprintf("expected at least %d fields, got %d", idx.width(), len(values)))
	}

	site, err := toText(values[idx.Site])
	if err != nil || site == "" {
		return core.LaunchRecord{}, core.MalformedRowError(row, "empty "+core.ColumnSite)
	}

	mass, err := toFloat(values[idx.PayloadMass])
	if err != nil {
		return core.LaunchRecord{}, core.MalformedRowError(row, fmt.Sprintf("%s: %v", core.ColumnPayloadMass, err))
	}
	if mass < 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return core.LaunchRecord{}, core.MalformedRowError(row, fmt.Sprintf("%s must be a non-negative number, got %v", core.ColumnPayloadMass, mass))
	}

	class, err := toFloat(values[idx.Class])
	if err != nil {
		return core.LaunchRecord{}, core.MalformedRowError(row, fmt.Sprintf("%s: %v", core.ColumnClass, err))
	}
	if class != 0 && class != 1 {
		return core.LaunchRecord{}, core.MalformedRowError(row, fmt.Sprintf("%s must be 0 or 1, got %v", core.ColumnClass, class))
	}

	booster, err := toText(values[idx.BoosterCategory])
	if err != nil {
		return core.LaunchRecord{}, core.MalformedRowError(row, fmt.Sprintf("%s: %v", core.ColumnBoosterCategory, err))
	}

	return core.LaunchRecord{
		Site:            site,
		PayloadMass:     mass,
		Success:         class == 1,
		BoosterCategory: booster,
	}, nil
}

// StringValues adapts a row of strings for ParseRow.
func StringValues(fields []string) []any {
	values := make([]any, len(fields))
	for i, f := range fields {
		values[i] = f
	}
	return values
}

func toText(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", fmt.Errorf("missing value")
	case string:
		return strings.TrimSpace(t), nil
	case []byte:
		return strings.TrimSpace(string(t)), nil
	case fmt.Stringer:
		return strings.TrimSpace(t.String()), nil
	default:
		return "", fmt.Errorf("unsupported text value of type %T", v)
	}
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, fmt.Errorf("missing value")
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int16:
		return float64(t), nil
	case int8:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case uint32:
		return float64(t), nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case string:
		return parseNumber(t)
	case []byte:
		return parseNumber(string(t))
	default:
		return 0, fmt.Errorf("unsupported numeric value of type %T", v)
	}
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing value")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}
