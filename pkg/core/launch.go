package core

import "math"

// =============================================================================
// Launch records
// =============================================================================

// Column names required in every tabular dataset source.
const (
	ColumnSite            = "Launch Site"
	ColumnPayloadMass     = "Payload Mass (kg)"
	ColumnClass           = "class"
	ColumnBoosterCategory = "Booster Version Category"
)

// RequiredColumns lists the dataset columns in the order sources report them.
var RequiredColumns = []string{
	ColumnSite,
	ColumnPayloadMass,
	ColumnClass,
	ColumnBoosterCategory,
}

// AllSites is the synthetic site-selection value that disables site filtering.
const AllSites = "ALL"

// Payload slider bounds and step.
const (
	PayloadSliderMin  = 0.0
	PayloadSliderMax  = 10000.0
	PayloadSliderStep = 1000.0
)

// LaunchRecord is one row of the launch dataset.
type LaunchRecord struct {
	Site            string  `json:"site" yaml:"site"`
	PayloadMass     float64 `json:"payload_mass" yaml:"payload_mass"`
	Success         bool    `json:"success" yaml:"success"`
	BoosterCategory string  `json:"booster_category" yaml:"booster_category"`
}

// Class returns the numeric outcome class: 1 for success, 0 for failure.
func (r LaunchRecord) Class() int {
	if r.Success {
		return 1
	}
	return 0
}

// SiteOption is one entry of the site-selection control.
type SiteOption struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// PayloadRange is an inclusive payload-mass interval.
type PayloadRange struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Contains reports whether mass lies within the range, both ends inclusive.
func (p PayloadRange) Contains(mass float64) bool {
	return p.Low <= mass && mass <= p.High
}

// Finite reports whether both bounds are real numbers, neither NaN nor infinite.
func (p PayloadRange) Finite() bool {
	return isFinite(p.Low) && isFinite(p.High)
}

// Clamp returns the range limited to the slider bounds with Low <= High.
// Reversed bounds are swapped rather than rejected. A NaN bound falls back
// to the slider bound on its side.
func (p PayloadRange) Clamp() PayloadRange {
	low, high := p.Low, p.High
	if math.IsNaN(low) {
		low = PayloadSliderMin
	}
	if math.IsNaN(high) {
		high = PayloadSliderMax
	}
	if low > high {
		low, high = high, low
	}
	low = clampFloat(low, PayloadSliderMin, PayloadSliderMax)
	high = clampFloat(high, PayloadSliderMin, PayloadSliderMax)
	return PayloadRange{Low: low, High: high}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
