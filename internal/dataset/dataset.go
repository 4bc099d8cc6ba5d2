// Package dataset holds the immutable in-memory table of launch records.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/leapstack-labs/launchdash/pkg/core"
	"github.com/leapstack-labs/launchdash/pkg/source"
)

// Dataset is an ordered, read-only sequence of launch records.
// Site options and payload bounds are computed once at construction.
// A Dataset is safe for concurrent use because nothing mutates it after New.
type Dataset struct {
	records     []core.LaunchRecord
	sites       []string
	siteSet     map[string]struct{}
	minPayload  float64
	maxPayload  float64
	successes   int
	description string
}

// New builds a dataset from records. The slice is copied.
func New(records []core.LaunchRecord) (*Dataset, error) {
	if len(records) == 0 {
		return nil, core.ErrEmptyDataset
	}

	d := &Dataset{
		records:    make([]core.LaunchRecord, len(records)),
		siteSet:    make(map[string]struct{}),
		minPayload: records[0].PayloadMass,
		maxPayload: records[0].PayloadMass,
	}
	copy(d.records, records)

	for _, rec := range d.records {
		if _, ok := d.siteSet[rec.Site]; !ok {
			d.siteSet[rec.Site] = struct{}{}
			d.sites = append(d.sites, rec.Site)
		}
		d.minPayload = min(d.minPayload, rec.PayloadMass)
		d.maxPayload = max(d.maxPayload, rec.PayloadMass)
		if rec.Success {
			d.successes++
		}
	}
	return d, nil
}

// Load opens src, reads every record and closes it again.
// Any failure, including an empty result, is reported as a *core.LoadError.
func Load(ctx context.Context, src source.Source, cfg source.Config, logger *slog.Logger) (*Dataset, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	location := cfg.Location()

	if err := src.Open(ctx, cfg); err != nil {
		return nil, &core.LoadError{Source: location, Err: err}
	}
	defer func() { _ = src.Close() }()

	records, err := src.ReadLaunches(ctx)
	if err != nil {
		return nil, &core.LoadError{Source: location, Err: err}
	}

	d, err := New(records)
	if err != nil {
		return nil, &core.LoadError{Source: location, Err: err}
	}
	d.description = location

	lo, hi := d.PayloadBounds()
	logger.Info("dataset loaded",
		"source", location,
		"records", d.Len(),
		"sites", len(d.sites),
		"payload_min", lo,
		"payload_max", hi,
	)
	return d, nil
}

// LoadConfig resolves the source named by cfg.Type from the registry and loads it.
func LoadConfig(ctx context.Context, cfg source.Config, logger *slog.Logger) (*Dataset, error) {
	src, err := source.New(cfg, logger)
	if err != nil {
		return nil, &core.LoadError{Source: cfg.Location(), Err: err}
	}
	return Load(ctx, src, cfg, logger)
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of the records in load order.
func (d *Dataset) Records() []core.LaunchRecord {
	out := make([]core.LaunchRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Each calls fn for every record in load order without copying the table.
func (d *Dataset) Each(fn func(core.LaunchRecord)) {
	for _, rec := range d.records {
		fn(rec)
	}
}

// Sites returns the distinct site identifiers in first-occurrence order.
func (d *Dataset) Sites() []string {
	out := make([]string, len(d.sites))
	copy(out, d.sites)
	return out
}

// HasSite reports whether site appears in the dataset.
func (d *Dataset) HasSite(site string) bool {
	_, ok := d.siteSet[site]
	return ok
}

// SiteOptions returns the site-selection options: "All" first, then one per site.
func (d *Dataset) SiteOptions() []core.SiteOption {
	opts := make([]core.SiteOption, 0, len(d.sites)+1)
	opts = append(opts, core.SiteOption{Label: "All", Value: core.AllSites})
	for _, s := range d.sites {
		opts = append(opts, core.SiteOption{Label: s, Value: s})
	}
	return opts
}

// PayloadBounds returns the minimum and maximum payload mass over all records.
func (d *Dataset) PayloadBounds() (lo, hi float64) {
	return d.minPayload, d.maxPayload
}

// DefaultRange returns the payload range covering every record.
func (d *Dataset) DefaultRange() core.PayloadRange {
	return core.PayloadRange{Low: d.minPayload, High: d.maxPayload}
}

// Successes returns the total number of successful launches.
func (d *Dataset) Successes() int {
	return d.successes
}

// Source describes where the dataset was loaded from.
func (d *Dataset) Source() string {
	return d.description
}

// Holder publishes the current dataset. Replacing it swaps the pointer;
// readers that already hold a *Dataset keep using their immutable snapshot.
type Holder struct {
	current atomic.Pointer[Dataset]
}

// NewHolder creates a holder publishing d.
func NewHolder(d *Dataset) *Holder {
	h := &Holder{}
	h.current.Store(d)
	return h
}

// Current returns the published dataset.
func (h *Holder) Current() *Dataset {
	return h.current.Load()
}

// Replace publishes d in place of the current dataset.
func (h *Holder) Replace(d *Dataset) error {
	if d == nil {
		return errors.New("cannot publish a nil dataset")
	}
	h.current.Store(d)
	return nil
}

// Reload loads a fresh dataset from cfg and publishes it.
// On failure the current dataset stays published.
func (h *Holder) Reload(ctx context.Context, cfg source.Config, logger *slog.Logger) error {
	d, err := LoadConfig(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("reload failed, keeping previous dataset: %w", err)
	}
	return h.Replace(d)
}
