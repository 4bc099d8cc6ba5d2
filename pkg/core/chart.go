package core

// ChartKind identifies how a chart specification is drawn.
type ChartKind string

// Chart kinds.
const (
	ChartPie     ChartKind = "pie"
	ChartScatter ChartKind = "scatter"
)

// ChartSpec is the renderable description of a chart.
// A spec is built fresh for every derivation and never mutated afterwards.
type ChartSpec struct {
	Kind     ChartKind `json:"kind" yaml:"kind"`
	Title    string    `json:"title" yaml:"title"`
	XLabel   string    `json:"x_label,omitempty" yaml:"x_label,omitempty"`
	YLabel   string    `json:"y_label,omitempty" yaml:"y_label,omitempty"`
	Segments []Segment `json:"segments,omitempty" yaml:"segments,omitempty"`
	Points   []Point   `json:"points,omitempty" yaml:"points,omitempty"`

	// XRange is the payload window a scatter chart was filtered with.
	XRange *PayloadRange `json:"x_range,omitempty" yaml:"x_range,omitempty"`
}

// Segment is one slice of a proportion chart.
type Segment struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// Point is one scatter-chart mark.
type Point struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Group string  `json:"group" yaml:"group"`
}

// Total returns the sum of all segment values.
func (c ChartSpec) Total() float64 {
	var total float64
	for _, s := range c.Segments {
		total += s.Value
	}
	return total
}

// Empty reports whether the chart has nothing to draw.
func (c ChartSpec) Empty() bool {
	switch c.Kind {
	case ChartScatter:
		return len(c.Points) == 0
	default:
		return c.Total() == 0
	}
}

// Groups returns the distinct point groups in first-occurrence order.
func (c ChartSpec) Groups() []string {
	seen := make(map[string]bool)
	var groups []string
	for _, p := range c.Points {
		if seen[p.Group] {
			continue
		}
		seen[p.Group] = true
		groups = append(groups, p.Group)
	}
	return groups
}
