package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routes assembles the chi router with the middleware chain and all
// endpoint registrations.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// Outermost first: recovery wraps everything, request IDs exist
	// before the logger runs.
	r.Use(s.recoverer)
	r.Use(s.requestID)
	r.Use(s.requestLogger)
	if s.metrics != nil {
		r.Use(s.httpMetrics)
	}
	r.Use(s.withTimeout)

	r.Get("/healthz", s.handleHealth)

	if s.metrics != nil && s.config.Telemetry.Metrics.IsEnabled() {
		r.Method(http.MethodGet, s.config.Telemetry.Metrics.Path, s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/compliance/validate", s.handleValidate)
		r.Get("/compliance/max-allowed", s.handleMaxAllowed)
		r.Get("/compliance/allergen", s.handleAllergen)

		r.Post("/rules/search", s.handleRuleSearch)
		r.Post("/rules/applicable", s.handleApplicableRules)

		r.Post("/signals/eeg", s.handleEEG)
		r.Post("/signals/ph", s.handlePH)

		if s.catalog != nil {
			r.Get("/catalog/ingredients", s.handleCatalogList)
			r.Get("/catalog/ingredients/{name}", s.handleCatalogLookup)
		}

		r.Post("/formula/profile", s.handleFormulaProfile)
	})

	return r
}
