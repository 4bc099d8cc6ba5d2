package dashboard

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/launchdash/internal/dataset"
	"github.com/leapstack-labs/launchdash/internal/render"
	"github.com/leapstack-labs/launchdash/internal/ui/notifier"
	"github.com/leapstack-labs/launchdash/internal/ui/session"
	"github.com/leapstack-labs/launchdash/pkg/core"
)

// Handlers provides HTTP handlers for the dashboard feature.
type Handlers struct {
	holder       *dataset.Holder
	sessionStore sessions.Store
	registry     *session.Registry
	dispatcher   *session.Dispatcher
	notifier     *notifier.Notifier
	logger       *slog.Logger
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	holder *dataset.Holder,
	sessionStore sessions.Store,
	registry *session.Registry,
	dispatcher *session.Dispatcher,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		holder:       holder,
		sessionStore: sessionStore,
		registry:     registry,
		dispatcher:   dispatcher,
		notifier:     notify,
		logger:       logger,
		isDev:        isDev,
	}
}

// DashboardPage renders the dashboard with both charts server-rendered.
// Every page load starts a fresh control state.
func (h *Handlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	id, err := session.ID(h.sessionStore, w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ds := h.holder.Current()
	controls := session.DefaultControls(ds)
	h.registry.Reset(id, controls)

	updates, err := h.dispatcher.DeriveAll(ds, controls)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := PageData{
		Title:    PageTitle,
		IsDev:    h.isDev,
		Options:  ds.SiteOptions(),
		Controls: controls,
	}
	for _, u := range updates {
		view, err := buildChart(u)
		if err != nil {
			h.logger.Error("chart render failed", "region", u.Region, "error", err)
			view = ChartView{Region: u.Region, Title: u.Spec.Title, Err: err.Error()}
		}
		data.Charts = append(data.Charts, view)
	}

	if err := Page(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// DashboardUpdates is the long-lived SSE endpoint for the dashboard page.
// It re-derives every region when a new dataset is published and drops the
// session's control state when the stream closes.
func (h *Handlers) DashboardUpdates(w http.ResponseWriter, r *http.Request) {
	id, err := session.ID(h.sessionStore, w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	st := h.registry.GetOrReset(id, session.DefaultControls(h.holder.Current()))
	defer h.registry.Drop(id, st)

	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case change := <-updates:
			h.logger.Debug("dataset changed, refreshing dashboard", "source", change.Source, "records", change.Records)
			if err := h.sendDashboardView(sse, st); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// SiteChanged handles a change of the site selector.
func (h *Handlers) SiteChanged(w http.ResponseWriter, r *http.Request) {
	h.handleControl(w, r, session.ControlSite)
}

// PayloadChanged handles a change of either payload slider.
func (h *Handlers) PayloadChanged(w http.ResponseWriter, r *http.Request) {
	h.handleControl(w, r, session.ControlPayload)
}

func (h *Handlers) handleControl(w http.ResponseWriter, r *http.Request, control session.Control) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "failed to read signals: "+err.Error(), http.StatusBadRequest)
		return
	}

	id, err := session.ID(h.sessionStore, w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ds := h.holder.Current()
	st := h.registry.GetOrReset(id, session.DefaultControls(ds))

	event := session.Event{
		Control: control,
		Site:    signals.Site,
		Payload: core.PayloadRange{Low: float64(signals.Low), High: float64(signals.High)},
	}
	updates, dispatchErr := h.dispatcher.Dispatch(ds, st, event)

	sse := datastar.NewSSE(w, r)
	current := st.Controls()

	if dispatchErr != nil {
		h.logger.Warn("control change rejected", "control", control, "error", dispatchErr)
		_ = sse.ConsoleError(dispatchErr)
		_ = sse.MarshalAndPatchSignals(controlSignals(current))
		return
	}

	if control == session.ControlPayload {
		// Clamping may have moved the bounds; show the values actually applied.
		_ = sse.MarshalAndPatchSignals(controlSignals(current))
	}
	h.patchRegions(sse, updates)
}

// sendDashboardView re-renders the site options and every chart for st.
func (h *Handlers) sendDashboardView(sse *datastar.ServerSentEventGenerator, st *session.State) error {
	ds := h.holder.Current()
	controls := st.Controls()

	if err := sse.PatchElementTempl(SiteDropdown(ds.SiteOptions(), controls.Site)); err != nil {
		return err
	}
	updates, err := h.dispatcher.DeriveAll(ds, controls)
	if err != nil {
		return err
	}
	h.patchRegions(sse, updates)
	return nil
}

// patchRegions renders and patches each update. A region that fails to render
// is left as it was.
func (h *Handlers) patchRegions(sse *datastar.ServerSentEventGenerator, updates []session.Update) {
	for _, u := range updates {
		view, err := buildChart(u)
		if err != nil {
			h.logger.Error("chart render failed, keeping previous chart", "region", u.Region, "error", err)
			_ = sse.ConsoleError(err)
			continue
		}
		if err := sse.PatchElementTempl(ChartRegion(view)); err != nil {
			h.logger.Debug("patch failed", "region", u.Region, "error", err)
			return
		}
	}
}

func buildChart(u session.Update) (ChartView, error) {
	view := ChartView{Region: u.Region, Title: u.Spec.Title}
	svg, err := render.SVG(u.Spec)
	switch {
	case errors.Is(err, render.ErrNoData):
		view.Empty = true
		return view, nil
	case err != nil:
		return ChartView{}, err
	}
	view.SVG = svg
	return view, nil
}

func controlSignals(c session.Controls) map[string]any {
	return map[string]any{
		"site": c.Site,
		"low":  c.Payload.Low,
		"high": c.Payload.High,
	}
}
