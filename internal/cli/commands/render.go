package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/launchdash/internal/cli/output"
	"github.com/leapstack-labs/launchdash/internal/dataset"
	"github.com/leapstack-labs/launchdash/internal/derive"
	"github.com/leapstack-labs/launchdash/internal/render"
	"github.com/leapstack-labs/launchdash/pkg/core"
)

// RenderOptions holds options for the render command.
type RenderOptions struct {
	Chart  string
	Site   string
	Low    float64
	High   float64
	Out    string
	Width  int
	Height int
	Spec   bool
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	opts := &RenderOptions{}
	defaults := render.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a dashboard chart to SVG",
		Long: `Derive one of the dashboard charts and write it as SVG.

The pie chart shows successful launches per site, or successes and failures for
one site. The scatter chart plots payload mass against launch outcome for the
selected site and payload range. Without --low/--high the range covers every record.

Use --spec to print the derived chart specification instead of drawing it.`,
		Example: `  # Success pie for all sites to stdout
  launchdash render --chart pie > sites.svg

  # Scatter for one site and payload window
  launchdash render --chart scatter --site "CCAFS LC-40" --low 2000 --high 8000 --out scatter.svg

  # Inspect the scatter points
  launchdash render --chart scatter --spec -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			ds, err := cc.LoadDataset(cmd.Context())
			if err != nil {
				return err
			}

			lo, hi := ds.PayloadBounds()
			if !cmd.Flags().Changed("low") {
				opts.Low = lo
			}
			if !cmd.Flags().Changed("high") {
				opts.High = hi
			}
			return runRender(cc.Renderer, ds, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Chart, "chart", string(core.ChartPie), "Chart to render (pie|scatter)")
	cmd.Flags().StringVar(&opts.Site, "site", core.AllSites, "Launch site (ALL for every site)")
	cmd.Flags().Float64Var(&opts.Low, "low", core.PayloadSliderMin, "Lowest payload mass in kg (scatter only)")
	cmd.Flags().Float64Var(&opts.High, "high", core.PayloadSliderMax, "Highest payload mass in kg (scatter only)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Output file (default: stdout)")
	cmd.Flags().IntVar(&opts.Width, "width", defaults.Width, "Chart width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", defaults.Height, "Chart height in pixels")
	cmd.Flags().BoolVar(&opts.Spec, "spec", false, "Print the chart specification instead of SVG")

	_ = cmd.RegisterFlagCompletionFunc("chart", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(core.ChartPie), string(core.ChartScatter)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runRender(r *output.Renderer, ds *dataset.Dataset, opts *RenderOptions) error {
	if opts.Site != core.AllSites && !ds.HasSite(opts.Site) {
		return fmt.Errorf("unknown launch site %q (available: %s)", opts.Site, strings.Join(ds.Sites(), ", "))
	}

	var spec core.ChartSpec
	switch core.ChartKind(opts.Chart) {
	case core.ChartPie:
		spec = derive.SiteBreakdown(ds, opts.Site)
	case core.ChartScatter:
		window := core.PayloadRange{Low: opts.Low, High: opts.High}.Clamp()
		spec = derive.Scatter(ds, opts.Site, window)
	default:
		return fmt.Errorf("unknown chart %q (expected pie or scatter)", opts.Chart)
	}

	if opts.Spec {
		return r.Render(specTable(spec), spec)
	}

	w := r.Out()
	if opts.Out != "" && opts.Out != "-" {
		f, err := os.Create(opts.Out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.Out, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := writeChart(w, spec, render.Options{Width: opts.Width, Height: opts.Height}); err != nil {
		return err
	}
	if opts.Out != "" && opts.Out != "-" {
		r.Statusf("Wrote %s to %s", spec.Title, opts.Out)
	}
	return nil
}

func writeChart(w io.Writer, spec core.ChartSpec, opts render.Options) error {
	err := render.Write(w, spec, opts)
	if errors.Is(err, render.ErrNoData) {
		return fmt.Errorf("%s: no launches match the selection", spec.Title)
	}
	return err
}

// specTable lays a chart specification out as rows for the text output modes.
func specTable(spec core.ChartSpec) output.Table {
	if spec.Kind == core.ChartScatter {
		t := output.Table{
			Title:  spec.Title,
			Header: []any{spec.XLabel, spec.YLabel, core.ColumnBoosterCategory},
		}
		for _, p := range spec.Points {
			t.Rows = append(t.Rows, []any{p.X, p.Y, p.Group})
		}
		return t
	}

	t := output.Table{Title: spec.Title, Header: []any{"Segment", "Value"}}
	for _, s := range spec.Segments {
		t.Rows = append(t.Rows, []any{s.Label, s.Value})
	}
	t.Footer = []any{"Total", spec.Total()}
	return t
}
