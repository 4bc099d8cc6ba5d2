// Package output renders command results as tables, markdown, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Mode selects how results are written.
type Mode string

// Output modes
const (
	ModeAuto     Mode = "auto"
	ModeTable    Mode = "table"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
	ModeYAML     Mode = "yaml"
)

// Table is tabular command output.
type Table struct {
	Title  string
	Header []any
	Rows   [][]any
	Footer []any
}

// Renderer writes command output in the configured mode.
// Status messages go to the error stream so structured output stays parseable.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
}

// NewRenderer creates a renderer. An empty mode means ModeAuto.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{out: out, errOut: errOut, mode: mode}
}

// Mode returns the effective mode. Auto resolves to a table on a terminal
// and to markdown otherwise.
func (r *Renderer) Mode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if isTerminal(r.out) {
		return ModeTable
	}
	return ModeMarkdown
}

// Out returns the result stream.
func (r *Renderer) Out() io.Writer {
	return r.out
}

// Statusf writes a progress message to the error stream.
func (r *Renderer) Statusf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errOut, format+"\n", args...)
}

// Println writes a line of text to the result stream.
func (r *Renderer) Println(args ...any) {
	_, _ = fmt.Fprintln(r.out, args...)
}

// Success writes a success message to the result stream.
func (r *Renderer) Success(msg string) {
	_, _ = fmt.Fprintf(r.out, "✓ %s\n", msg)
}

// StatusLine writes one item with a status marker and optional detail.
func (r *Renderer) StatusLine(name, status, detail string) {
	marker := "•"
	switch status {
	case "success":
		marker = "✓"
	case "error":
		marker = "✗"
	case "skipped":
		marker = "-"
	}
	if detail != "" {
		_, _ = fmt.Fprintf(r.out, "  %s %s (%s)\n", marker, name, detail)
		return
	}
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", marker, name)
}

// Render writes t for the text modes and data for JSON and YAML.
func (r *Renderer) Render(t Table, data any) error {
	switch mode := r.Mode(); mode {
	case ModeJSON:
		return r.JSON(data)
	case ModeYAML:
		return r.YAML(data)
	case ModeTable, ModeMarkdown:
		r.renderTable(t, mode)
		return nil
	default:
		return fmt.Errorf("unknown output mode %q", mode)
	}
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as YAML.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (r *Renderer) renderTable(t Table, mode Mode) {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	if t.Title != "" {
		tw.SetTitle(t.Title)
	}
	if len(t.Header) > 0 {
		tw.AppendHeader(table.Row(t.Header))
	}
	for _, row := range t.Rows {
		tw.AppendRow(table.Row(row))
	}
	if len(t.Footer) > 0 {
		tw.AppendFooter(table.Row(t.Footer))
	}

	if mode == ModeMarkdown {
		tw.RenderMarkdown()
		return
	}
	tw.Render()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec
}
