// Package api exposes chart specifications as JSON for external plotting engines.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/leapstack-labs/launchdash/internal/dataset"
	"github.com/leapstack-labs/launchdash/internal/derive"
	"github.com/leapstack-labs/launchdash/pkg/core"
)

// SitesResponse lists the site options and payload bounds of the current dataset.
type SitesResponse struct {
	Source  string            `json:"source"`
	Records int               `json:"records"`
	Options []core.SiteOption `json:"options"`
	Payload core.PayloadRange `json:"payload"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handlers provides HTTP handlers for the API feature.
type Handlers struct {
	holder *dataset.Holder
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(holder *dataset.Holder, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{holder: holder, logger: logger}
}

// Sites returns the site-selection options.
func (h *Handlers) Sites(w http.ResponseWriter, _ *http.Request) {
	ds := h.holder.Current()
	h.writeJSON(w, http.StatusOK, SitesResponse{
		Source:  ds.Source(),
		Records: ds.Len(),
		Options: ds.SiteOptions(),
		Payload: ds.DefaultRange(),
	})
}

// SiteBreakdown returns the proportion chart for ?site= (default ALL).
func (h *Handlers) SiteBreakdown(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, derive.SiteBreakdown(h.holder.Current(), siteParam(r)))
}

// Scatter returns the scatter chart for ?site=&low=&high=.
// Missing bounds default to the dataset's payload bounds.
func (h *Handlers) Scatter(w http.ResponseWriter, r *http.Request) {
	ds := h.holder.Current()
	window := ds.DefaultRange()

	var err error
	if window.Low, err = floatParam(r, "low", window.Low); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if window.High, err = floatParam(r, "high", window.High); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, derive.Scatter(ds, siteParam(r), window.Clamp()))
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Debug("failed to write response", "error", err)
	}
}

func siteParam(r *http.Request) string {
	if site := r.URL.Query().Get("site"); site != "" {
		return site
	}
	return core.AllSites
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not a number", name, raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s: %q is not a finite number", name, raw)
	}
	return f, nil
}
