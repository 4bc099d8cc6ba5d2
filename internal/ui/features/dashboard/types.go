// Package dashboard provides the launch dashboard page and its reactive controls.
package dashboard

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/leapstack-labs/launchdash/internal/ui/session"
	"github.com/leapstack-labs/launchdash/pkg/core"
)

// PageTitle is the dashboard heading and document title.
const PageTitle = "SpaceX Launch Records Dashboard"

// Element ids of the controls.
const (
	SiteDropdownID = "site-dropdown"
	PayloadLowID   = "payload-low"
	PayloadHighID  = "payload-high"
)

// PayloadMarks are the labelled positions of the payload slider.
var PayloadMarks = []float64{0, 2500, 5000, 7500, 10000}

// Signals are the datastar signals sent with every control change.
type Signals struct {
	Site string `json:"site"`
	Low  Number `json:"low"`
	High Number `json:"high"`
}

// Number is a signal value that may arrive as a JSON number or a numeric string;
// range inputs bound by datastar report their value as text.
type Number float64

// UnmarshalJSON accepts 1000, 1000.5 and "1000". NaN and infinities are rejected.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(bytes.TrimSpace(b), `"`)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", b)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid number %q: must be finite", b)
	}
	*n = Number(f)
	return nil
}

// PageData holds everything the page renders on first load.
type PageData struct {
	Title    string
	IsDev    bool
	Options  []core.SiteOption
	Controls session.Controls
	Charts   []ChartView
}

// ChartView is a rendered chart region.
type ChartView struct {
	Region session.Region
	Title  string
	SVG    []byte
	// Empty is set when the chart has no data to draw.
	Empty bool
	// Err is set when the chart could not be rendered at all.
	Err string
}
