package dashboard

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/launchdash/internal/dataset"
	"github.com/leapstack-labs/launchdash/internal/ui/notifier"
	"github.com/leapstack-labs/launchdash/internal/ui/session"
)

// SetupRoutes configures routes for the dashboard feature.
func SetupRoutes(
	router chi.Router,
	holder *dataset.Holder,
	sessionStore sessions.Store,
	registry *session.Registry,
	dispatcher *session.Dispatcher,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(holder, sessionStore, registry, dispatcher, notify, logger, isDev)

	router.Get("/", handlers.DashboardPage)
	router.Get("/updates", handlers.DashboardUpdates)

	router.Route("/controls", func(r chi.Router) {
		r.Post("/site", handlers.SiteChanged)
		r.Post("/payload", handlers.PayloadChanged)
	})

	return nil
}
