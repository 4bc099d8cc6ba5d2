package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/launchdash/internal/dataset"
)

// SetupRoutes registers the API feature routes.
func SetupRoutes(router chi.Router, holder *dataset.Holder, logger *slog.Logger) error {
	handlers := NewHandlers(holder, logger)

	router.Route("/api", func(r chi.Router) {
		r.Get("/sites", handlers.Sites)
		r.Get("/charts/site-breakdown", handlers.SiteBreakdown)
		r.Get("/charts/scatter", handlers.Scatter)
	})

	return nil
}
