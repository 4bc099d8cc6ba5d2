// Package router sets up HTTP routes for the dashboard server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/launchdash/internal/dataset"
	apiFeature "github.com/leapstack-labs/launchdash/internal/ui/features/api"
	dashboardFeature "github.com/leapstack-labs/launchdash/internal/ui/features/dashboard"
	"github.com/leapstack-labs/launchdash/internal/ui/notifier"
	"github.com/leapstack-labs/launchdash/internal/ui/resources"
	"github.com/leapstack-labs/launchdash/internal/ui/session"
)

// Deps are the shared dependencies of every feature.
type Deps struct {
	Holder       *dataset.Holder
	SessionStore sessions.Store
	Registry     *session.Registry
	Dispatcher   *session.Dispatcher
	Notifier     *notifier.Notifier
	Logger       *slog.Logger
	IsDev        bool
}

// SetupRoutes configures all routes for the dashboard server.
func SetupRoutes(router chi.Router, deps Deps) error {
	router.Use(middleware.Heartbeat("/healthz"))

	// Hot reload endpoint for dev mode
	if deps.IsDev {
		setupReload(router)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Feature routes
	if err := dashboardFeature.SetupRoutes(
		router,
		deps.Holder,
		deps.SessionStore,
		deps.Registry,
		deps.Dispatcher,
		deps.Notifier,
		deps.Logger,
		deps.IsDev,
	); err != nil {
		return err
	}

	if err := apiFeature.SetupRoutes(router, deps.Holder, deps.Logger); err != nil {
		return err
	}

	return nil
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
