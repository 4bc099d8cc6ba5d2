package session

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/launchdash/internal/dataset"
	"github.com/leapstack-labs/launchdash/internal/derive"
	"github.com/leapstack-labs/launchdash/pkg/core"
)

// Errors returned for rejected control changes.
var (
	// ErrUnknownSite is returned for a site selection outside the dataset's options.
	ErrUnknownSite = errors.New("unknown launch site")
	// ErrInvalidPayload is returned for a payload bound that is NaN or infinite.
	ErrInvalidPayload = errors.New("invalid payload range")
)

// Control identifies an input control.
type Control string

// Controls of the dashboard.
const (
	ControlSite    Control = "site"
	ControlPayload Control = "payload"
)

// Region identifies an output region of the page. The value is the element id.
type Region string

// Regions of the dashboard.
const (
	RegionPie     Region = "success-pie-chart"
	RegionScatter Region = "success-payload-scatter-chart"
)

// Deriver computes the chart specification of a region.
type Deriver func(d *dataset.Dataset, c Controls) core.ChartSpec

// Event is a change of one control.
type Event struct {
	Control Control
	Site    string
	Payload core.PayloadRange
}

// Update is a freshly derived chart for one region.
type Update struct {
	Region Region
	Spec   core.ChartSpec
}

// Dispatcher binds controls to the regions that depend on them.
type Dispatcher struct {
	bindings map[Control][]Region
	derivers map[Region]Deriver
	regions  []Region
}

// NewDispatcher returns the dashboard's binding table:
// the site control drives both charts, the payload control only the scatter chart.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		bindings: make(map[Control][]Region),
		derivers: make(map[Region]Deriver),
	}
	d.Define(RegionPie, func(ds *dataset.Dataset, c Controls) core.ChartSpec {
		return derive.SiteBreakdown(ds, c.Site)
	})
	d.Define(RegionScatter, func(ds *dataset.Dataset, c Controls) core.ChartSpec {
		return derive.Scatter(ds, c.Site, c.Payload)
	})
	d.Bind(ControlSite, RegionPie, RegionScatter)
	d.Bind(ControlPayload, RegionScatter)
	return d
}

// Define sets the deriver of a region.
func (d *Dispatcher) Define(r Region, fn Deriver) {
	if _, ok := d.derivers[r]; !ok {
		d.regions = append(d.regions, r)
	}
	d.derivers[r] = fn
}

// Bind makes changes of c re-derive regions, in the given order.
func (d *Dispatcher) Bind(c Control, regions ...Region) {
	d.bindings[c] = append(d.bindings[c], regions...)
}

// Regions returns the regions bound to c.
func (d *Dispatcher) Regions(c Control) []Region {
	out := make([]Region, len(d.bindings[c]))
	copy(out, d.bindings[c])
	return out
}

// AllRegions returns every defined region in definition order.
func (d *Dispatcher) AllRegions() []Region {
	out := make([]Region, len(d.regions))
	copy(out, d.regions)
	return out
}

// Derive computes one region for c.
func (d *Dispatcher) Derive(r Region, ds *dataset.Dataset, c Controls) (core.ChartSpec, error) {
	fn, ok := d.derivers[r]
	if !ok {
		return core.ChartSpec{}, fmt.Errorf("no deriver for region %q", r)
	}
	return fn(ds, c), nil
}

// DeriveAll computes every region for c.
func (d *Dispatcher) DeriveAll(ds *dataset.Dataset, c Controls) ([]Update, error) {
	return d.derive(d.regions, ds, c)
}

// Dispatch applies ev to st and re-derives the regions bound to its control.
// An invalid event leaves st unchanged.
func (d *Dispatcher) Dispatch(ds *dataset.Dataset, st *State, ev Event) ([]Update, error) {
	regions, ok := d.bindings[ev.Control]
	if !ok {
		return nil, fmt.Errorf("unknown control %q", ev.Control)
	}

	var apply func(*Controls)
	switch ev.Control {
	case ControlSite:
		if ev.Site != core.AllSites && !ds.HasSite(ev.Site) {
			return nil, fmt.Errorf("%w %q", ErrUnknownSite, ev.Site)
		}
		apply = func(c *Controls) { c.Site = ev.Site }
	case ControlPayload:
		if !ev.Payload.Finite() {
			return nil, fmt.Errorf("%w: low=%v high=%v", ErrInvalidPayload, ev.Payload.Low, ev.Payload.High)
		}
		r := ev.Payload.Clamp()
		apply = func(c *Controls) { c.Payload = r }
	default:
		return nil, fmt.Errorf("control %q has no state", ev.Control)
	}

	return d.derive(regions, ds, st.update(apply))
}

func (d *Dispatcher) derive(regions []Region, ds *dataset.Dataset, c Controls) ([]Update, error) {
	updates := make([]Update, 0, len(regions))
	for _, r := range regions {
		spec, err := d.Derive(r, ds, c)
		if err != nil {
			return nil, err
		}
		updates = append(updates, Update{Region: r, Spec: spec})
	}
	return updates, nil
}
