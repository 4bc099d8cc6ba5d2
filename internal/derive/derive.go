// Package derive turns a dataset and a control state into chart specifications.
//
// Every function here is pure: it reads the immutable dataset, allocates a new
// core.ChartSpec and never touches shared state, so the same inputs always
// produce the same specification.
package derive

import (
	"fmt"

	"github.com/leapstack-labs/launchdash/internal/dataset"
	"github.com/leapstack-labs/launchdash/pkg/core"
)

// Chart titles.
const (
	TitleBreakdownAll  = "Total Success Launches by Site"
	TitleBreakdownSite = "Total Success Launches for site %s"
	TitleScatterAll    = "Correlation between Payload and Success for all Sites"
	TitleScatterSite   = "Correlation between Payload and Success for %s site"
)

// Segment labels of a single-site breakdown.
const (
	LabelSuccess = "1"
	LabelFailure = "0"
)

// Predicate selects launch records.
type Predicate func(core.LaunchRecord) bool

// InRange keeps records whose payload lies in r, both ends inclusive.
func InRange(r core.PayloadRange) Predicate {
	return func(rec core.LaunchRecord) bool {
		return r.Contains(rec.PayloadMass)
	}
}

// AtSite keeps records launched from site. core.AllSites keeps everything.
func AtSite(site string) Predicate {
	if site == core.AllSites {
		return func(core.LaunchRecord) bool { return true }
	}
	return func(rec core.LaunchRecord) bool {
		return rec.Site == site
	}
}

// All combines predicates; a record must satisfy each of them.
func All(preds ...Predicate) Predicate {
	return func(rec core.LaunchRecord) bool {
		for _, p := range preds {
			if !p(rec) {
				return false
			}
		}
		return true
	}
}

// Filter returns the records matching pred in dataset order.
func Filter(d *dataset.Dataset, pred Predicate) []core.LaunchRecord {
	var out []core.LaunchRecord
	d.Each(func(rec core.LaunchRecord) {
		if pred(rec) {
			out = append(out, rec)
		}
	})
	return out
}

// SiteBreakdown derives the proportion chart.
//
// For core.AllSites there is one segment per site, in first-occurrence order,
// valued by its success count. For a single site there are exactly two
// segments, successes ("1") then failures ("0"), even when either is zero.
// A site absent from the dataset yields two zero segments.
func SiteBreakdown(d *dataset.Dataset, site string) core.ChartSpec {
	if site == core.AllSites {
		return allSitesBreakdown(d)
	}

	var success, total int
	d.Each(func(rec core.LaunchRecord) {
		if rec.Site != site {
			return
		}
		total++
		success += rec.Class()
	})

	return core.ChartSpec{
		Kind:  core.ChartPie,
		Title: fmt.Sprintf(TitleBreakdownSite, site),
		Segments: []core.Segment{
			{Label: LabelSuccess, Value: float64(success)},
			{Label: LabelFailure, Value: float64(total - success)},
		},
	}
}

func allSitesBreakdown(d *dataset.Dataset) core.ChartSpec {
	sites := d.Sites()
	counts := make(map[string]int, len(sites))
	d.Each(func(rec core.LaunchRecord) {
		counts[rec.Site] += rec.Class()
	})

	segments := make([]core.Segment, 0, len(sites))
	for _, s := range sites {
		segments = append(segments, core.Segment{Label: s, Value: float64(counts[s])})
	}
	return core.ChartSpec{
		Kind:     core.ChartPie,
		Title:    TitleBreakdownAll,
		Segments: segments,
	}
}

// Scatter derives the payload/outcome scatter chart.
//
// Records are kept when their payload lies in r (inclusive) and, unless site is
// core.AllSites, when they were launched from site. Each kept record becomes one
// point: x is the payload mass, y the outcome class, grouped by booster category.
// No matching records is an empty chart, not an error.
func Scatter(d *dataset.Dataset, site string, r core.PayloadRange) core.ChartSpec {
	title := TitleScatterAll
	if site != core.AllSites {
		title = fmt.Sprintf(TitleScatterSite, site)
	}

	var points []core.Point
	pred := All(InRange(r), AtSite(site))
	d.Each(func(rec core.LaunchRecord) {
		if !pred(rec) {
			return
		}
		points = append(points, core.Point{
			X:     rec.PayloadMass,
			Y:     float64(rec.Class()),
			Group: rec.BoosterCategory,
		})
	})

	window := r
	return core.ChartSpec{
		Kind:   core.ChartScatter,
		Title:  title,
		XLabel: core.ColumnPayloadMass,
		YLabel: core.ColumnClass,
		Points: points,
		XRange: &window,
	}
}
