package dashboard

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/launchdash/internal/ui/resources"
	"github.com/leapstack-labs/launchdash/internal/ui/session"
	"github.com/leapstack-labs/launchdash/pkg/core"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// Page renders the full dashboard document.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		signals, err := templ.JSONString(map[string]any{
			"site": data.Controls.Site,
			"low":  data.Controls.Payload.Low,
			"high": data.Controls.Payload.High,
		})
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="stylesheet" href="%s">
<script type="module" src="%s"></script>
</head>
<body data-signals="%s" data-init="@get('/updates')">
<main class="dashboard">
<h1 class="dashboard-title">%s</h1>
`,
			templ.EscapeString(data.Title),
			resources.StaticPath("dashboard.css"),
			datastarScript,
			templ.EscapeString(signals),
			templ.EscapeString(data.Title),
		); err != nil {
			return err
		}

		if err := SiteDropdown(data.Options, data.Controls.Site).Render(ctx, w); err != nil {
			return err
		}
		if err := chartFor(data.Charts, session.RegionPie).Render(ctx, w); err != nil {
			return err
		}
		if err := PayloadSlider(data.Controls.Payload).Render(ctx, w); err != nil {
			return err
		}
		if err := chartFor(data.Charts, session.RegionScatter).Render(ctx, w); err != nil {
			return err
		}

		if _, err := io.WriteString(w, "</main>\n"); err != nil {
			return err
		}
		if data.IsDev {
			if _, err := io.WriteString(w, `<div data-init="@get('/reload', {retryMaxCount: 1000, retryInterval: 20, retryMaxWaitMs: 200})"></div>`+"\n"); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}

// SiteDropdown renders the site selector with the selected option marked.
func SiteDropdown(options []core.SiteOption, selected string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<section class="control" id="%s-control"><label for="%s">Launch Site</label>`+"\n"+
				`<select id="%s" data-bind:site data-on:change="@post('/controls/site')">`+"\n",
			SiteDropdownID, SiteDropdownID, SiteDropdownID); err != nil {
			return err
		}
		for _, opt := range options {
			attr := ""
			if opt.Value == selected {
				attr = " selected"
			}
			if _, err := fmt.Fprintf(w, `<option value="%s"%s>%s</option>`+"\n",
				templ.EscapeString(opt.Value), attr, templ.EscapeString(opt.Label)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</select>\n</section>\n")
		return err
	})
}

// PayloadSlider renders the dual-ended payload range control.
func PayloadSlider(r core.PayloadRange) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="control payload-control"><p>Payload range (Kg): <output data-text="$low + ' - ' + $high"></output></p>`+"\n"); err != nil {
			return err
		}
		inputs := []struct {
			id, signal string
			value      float64
		}{
			{PayloadLowID, "low", r.Low},
			{PayloadHighID, "high", r.High},
		}
		for _, in := range inputs {
			if _, err := fmt.Fprintf(w,
				`<input type="range" id="%s" min="%s" max="%s" step="%s" value="%s" list="payload-marks" data-bind:%s data-on:change="@post('/controls/payload')">`+"\n",
				in.id,
				formatNumber(core.PayloadSliderMin),
				formatNumber(core.PayloadSliderMax),
				formatNumber(core.PayloadSliderStep),
				formatNumber(in.value),
				in.signal,
			); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<datalist id="payload-marks">`); err != nil {
			return err
		}
		for _, m := range PayloadMarks {
			v := formatNumber(m)
			if _, err := fmt.Fprintf(w, `<option value="%s" label="%s"></option>`, v, v); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</datalist>\n</section>\n")
		return err
	})
}

// ChartRegion renders one chart region. The element id is the region name,
// so a patch replaces exactly that region.
func ChartRegion(v ChartView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div id="%s" class="chart" aria-label="%s">`, v.Region, templ.EscapeString(v.Title)); err != nil {
			return err
		}
		switch {
		case v.Err != "":
			if _, err := fmt.Fprintf(w, `<p class="chart-error">%s unavailable: %s</p>`,
				templ.EscapeString(v.Title), templ.EscapeString(v.Err)); err != nil {
				return err
			}
		case v.Empty:
			if _, err := fmt.Fprintf(w, `<p class="chart-empty"><strong>%s</strong><br>No launches match the current selection.</p>`,
				templ.EscapeString(v.Title)); err != nil {
				return err
			}
		default:
			if err := templ.Raw(string(v.SVG)).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</div>\n")
		return err
	})
}

func chartFor(charts []ChartView, r session.Region) templ.Component {
	for _, c := range charts {
		if c.Region == r {
			return ChartRegion(c)
		}
	}
	return ChartRegion(ChartView{Region: r, Empty: true})
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
