package derive

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/launchdash/internal/dataset"
	"github.com/leapstack-labs/launchdash/internal/testutil"
	"github.com/leapstack-labs/launchdash/pkg/core"
)

func newDataset(t *testing.T, records []core.LaunchRecord) *dataset.Dataset {
	t.Helper()
	d, err := dataset.New(records)
	require.NoError(t, err)
	return d
}

func TestSiteBreakdown_Scenario(t *testing.T) {
	d := newDataset(t, testutil.ScenarioRecords())

	tests := []struct {
		name string
		site string
		want core.ChartSpec
	}{
		{
			name: "all sites",
			site: core.AllSites,
			want: core.ChartSpec{
				Kind:     core.ChartPie,
				Title:    "Total Success Launches by Site",
				Segments: []core.Segment{{Label: "A", Value: 3}, {Label: "B", Value: 0}},
			},
		},
		{
			name: "site A",
			site: "A",
			want: core.ChartSpec{
				Kind:     core.ChartPie,
				Title:    "Total Success Launches for site A",
				Segments: []core.Segment{{Label: "1", Value: 3}, {Label: "0", Value: 1}},
			},
		},
		{
			name: "site without successes",
			site: "B",
			want: core.ChartSpec{
				Kind:     core.ChartPie,
				Title:    "Total Success Launches for site B",
				Segments: []core.Segment{{Label: "1", Value: 0}, {Label: "0", Value: 2}},
			},
		},
		{
			name: "unknown site",
			site: "Z",
			want: core.ChartSpec{
				Kind:     core.ChartPie,
				Title:    "Total Success Launches for site Z",
				Segments: []core.Segment{{Label: "1", Value: 0}, {Label: "0", Value: 0}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SiteBreakdown(d, tt.site)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SiteBreakdown(%q) mismatch (-want +got):\n%s", tt.site, diff)
			}
		})
	}
}

func TestSiteBreakdown_Totals(t *testing.T) {
	d := newDataset(t, testutil.SpaceXRecords())

	all := SiteBreakdown(d, core.AllSites)
	assert.Equal(t, float64(d.Successes()), all.Total())
	assert.Len(t, all.Segments, len(d.Sites()))

	for _, site := range d.Sites() {
		spec := SiteBreakdown(d, site)
		count := len(Filter(d, AtSite(site)))
		assert.Equal(t, float64(count), spec.Total(), "site %s", site)
		require.Len(t, spec.Segments, 2)
		assert.Equal(t, LabelSuccess, spec.Segments[0].Label)
		assert.Equal(t, LabelFailure, spec.Segments[1].Label)
	}
}

func TestScatter_FullRangeKeepsEveryRecord(t *testing.T) {
	d := newDataset(t, testutil.SpaceXRecords())

	spec := Scatter(d, core.AllSites, d.DefaultRange())
	assert.Equal(t, core.ChartScatter, spec.Kind)
	assert.Equal(t, "Correlation between Payload and Success for all Sites", spec.Title)
	assert.Equal(t, "Payload Mass (kg)", spec.XLabel)
	assert.Equal(t, "class", spec.YLabel)
	require.Len(t, spec.Points, d.Len())

	for i, rec := range d.Records() {
		assert.Equal(t, core.Point{X: rec.PayloadMass, Y: float64(rec.Class()), Group: rec.BoosterCategory}, spec.Points[i])
	}
}

func TestScatter_SliderBoundsInclusive(t *testing.T) {
	d := newDataset(t, testutil.SpaceXRecords())

	spec := Scatter(d, core.AllSites, core.PayloadRange{Low: 0, High: 10000})
	require.Len(t, spec.Points, d.Len())
	assert.Equal(t, 0.0, spec.Points[0].X)
	assert.Equal(t, 10000.0, spec.Points[len(spec.Points)-1].X)
	require.NotNil(t, spec.XRange)
	assert.Equal(t, core.PayloadRange{Low: 0, High: 10000}, *spec.XRange)
}

func TestScatter_Filters(t *testing.T) {
	d := newDataset(t, testutil.SpaceXRecords())

	tests := []struct {
		name      string
		site      string
		r         core.PayloadRange
		wantTitle string
		wantX     []float64
	}{
		{
			name:      "single site",
			site:      "KSC LC-39A",
			r:         core.PayloadRange{Low: 0, High: 10000},
			wantTitle: "Correlation between Payload and Success for KSC LC-39A site",
			wantX:     []float64{2490, 5300},
		},
		{
			name:      "site and range",
			site:      "VAFB SLC-4E",
			r:         core.PayloadRange{Low: 1000, High: 10000},
			wantTitle: "Correlation between Payload and Success for VAFB SLC-4E site",
			wantX:     []float64{9600},
		},
		{
			name:      "range only",
			site:      core.AllSites,
			r:         core.PayloadRange{Low: 500, High: 3669},
			wantTitle: "Correlation between Payload and Success for all Sites",
			wantX:     []float64{525, 500, 2490, 3669},
		},
		{
			name:      "degenerate range without a match",
			site:      core.AllSites,
			r:         core.PayloadRange{Low: 4000, High: 4000},
			wantTitle: "Correlation between Payload and Success for all Sites",
		},
		{
			name:      "degenerate range with a match",
			site:      core.AllSites,
			r:         core.PayloadRange{Low: 5300, High: 5300},
			wantTitle: "Correlation between Payload and Success for all Sites",
			wantX:     []float64{5300},
		},
		{
			name:      "site outside the range",
			site:      "KSC LC-39A",
			r:         core.PayloadRange{Low: 6000, High: 10000},
			wantTitle: "Correlation between Payload and Success for KSC LC-39A site",
		},
		{
			name:      "unknown site",
			site:      "Z",
			r:         core.PayloadRange{Low: 0, High: 10000},
			wantTitle: "Correlation between Payload and Success for Z site",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := Scatter(d, tt.site, tt.r)
			assert.Equal(t, tt.wantTitle, spec.Title)

			var xs []float64
			for _, p := range spec.Points {
				xs = append(xs, p.X)
			}
			assert.Equal(t, tt.wantX, xs)
			assert.Equal(t, len(tt.wantX) == 0, spec.Empty())
		})
	}
}

func TestDerive_Idempotent(t *testing.T) {
	d := newDataset(t, testutil.SpaceXRecords())
	r := core.PayloadRange{Low: 500, High: 9600}

	for _, site := range append([]string{core.AllSites}, d.Sites()...) {
		if diff := cmp.Diff(SiteBreakdown(d, site), SiteBreakdown(d, site)); diff != "" {
			t.Errorf("SiteBreakdown(%q) not idempotent:\n%s", site, diff)
		}
		if diff := cmp.Diff(Scatter(d, site, r), Scatter(d, site, r)); diff != "" {
			t.Errorf("Scatter(%q) not idempotent:\n%s", site, diff)
		}
	}
}

func TestPredicates(t *testing.T) {
	rec := core.LaunchRecord{Site: "A", PayloadMass: 1000, Success: true, BoosterCategory: "FT"}

	assert.True(t, InRange(core.PayloadRange{Low: 1000, High: 1000})(rec))
	assert.False(t, InRange(core.PayloadRange{Low: 1001, High: 2000})(rec))
	assert.True(t, AtSite(core.AllSites)(rec))
	assert.True(t, AtSite("A")(rec))
	assert.False(t, AtSite("B")(rec))
	assert.True(t, All()(rec))
	assert.False(t, All(AtSite("A"), AtSite("B"))(rec))
}
