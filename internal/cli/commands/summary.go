package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/launchdash/internal/cli/output"
	"github.com/leapstack-labs/launchdash/internal/dataset"
	"github.com/leapstack-labs/launchdash/internal/derive"
	"github.com/leapstack-labs/launchdash/pkg/core"
)

// SiteSummary is the launch outcome count for one site.
type SiteSummary struct {
	Site        string  `json:"site" yaml:"site"`
	Launches    int     `json:"launches" yaml:"launches"`
	Successes   int     `json:"successes" yaml:"successes"`
	Failures    int     `json:"failures" yaml:"failures"`
	SuccessRate float64 `json:"success_rate" yaml:"success_rate"`
}

// Summary describes a loaded dataset.
type Summary struct {
	Source     string        `json:"source" yaml:"source"`
	Records    int           `json:"records" yaml:"records"`
	Successes  int           `json:"successes" yaml:"successes"`
	PayloadMin float64       `json:"payload_min" yaml:"payload_min"`
	PayloadMax float64       `json:"payload_max" yaml:"payload_max"`
	Sites      []SiteSummary `json:"sites" yaml:"sites"`
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand() *cobra.Command {
	var site string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print launch outcomes per site",
		Long: `Load the launch dataset and print launches, successes and failures per site.

Use --site to restrict the summary to one launch site. The output format follows
--output: a table on a terminal, markdown when piped, or json/yaml.`,
		Example: `  # Summarize every site
  launchdash summary

  # One site as JSON
  launchdash summary --site "KSC LC-39A" -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			ds, err := cc.LoadDataset(cmd.Context())
			if err != nil {
				return err
			}
			return runSummary(cc.Renderer, ds, site)
		},
	}

	cmd.Flags().StringVar(&site, "site", core.AllSites, "Launch site to summarize (ALL for every site)")

	return cmd
}

func runSummary(r *output.Renderer, ds *dataset.Dataset, site string) error {
	summary, err := buildSummary(ds, site)
	if err != nil {
		return err
	}

	t := output.Table{
		Title:  fmt.Sprintf("%s (%d launches)", summary.Source, summary.Records),
		Header: []any{"Launch Site", "Launches", "Successes", "Failures", "Success Rate"},
	}
	var launches, successes, failures int
	for _, s := range summary.Sites {
		t.Rows = append(t.Rows, []any{s.Site, s.Launches, s.Successes, s.Failures, formatRate(s.SuccessRate)})
		launches += s.Launches
		successes += s.Successes
		failures += s.Failures
	}
	if len(summary.Sites) > 1 {
		t.Footer = []any{"Total", launches, successes, failures, formatRate(rate(successes, launches))}
	}

	return r.Render(t, summary)
}

// buildSummary counts outcomes per site using the site breakdown derivation.
func buildSummary(ds *dataset.Dataset, site string) (Summary, error) {
	sites := ds.Sites()
	if site != "" && site != core.AllSites {
		if !ds.HasSite(site) {
			return Summary{}, fmt.Errorf("unknown launch site %q (available: %s)", site, strings.Join(sites, ", "))
		}
		sites = []string{site}
	}

	lo, hi := ds.PayloadBounds()
	summary := Summary{
		Source:     ds.Source(),
		Records:    ds.Len(),
		Successes:  ds.Successes(),
		PayloadMin: lo,
		PayloadMax: hi,
		Sites:      make([]SiteSummary, 0, len(sites)),
	}

	for _, name := range sites {
		s := SiteSummary{Site: name}
		for _, seg := range derive.SiteBreakdown(ds, name).Segments {
			switch seg.Label {
			case derive.LabelSuccess:
				s.Successes = int(seg.Value)
			case derive.LabelFailure:
				s.Failures = int(seg.Value)
			}
		}
		s.Launches = s.Successes + s.Failures
		s.SuccessRate = rate(s.Successes, s.Launches)
		summary.Sites = append(summary.Sites, s)
	}
	return summary, nil
}

func rate(successes, launches int) float64 {
	if launches == 0 {
		return 0
	}
	return float64(successes) / float64(launches)
}

func formatRate(r float64) string {
	return fmt.Sprintf("%.1f%%", r*100)
}
