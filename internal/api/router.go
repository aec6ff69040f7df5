package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/draftpool/internal/api/handlers"
	"github.com/ramonehamilton/draftpool/internal/api/response"
	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/version"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		setHandler := handlers.NewSetHandler(s.catalogs)
		r.Route("/sets", func(r chi.Router) {
			r.Get("/", setHandler.ListSets)
			r.Get("/{code}", setHandler.GetSet)
		})

		cardHandler := handlers.NewCardHandler(s.catalogs)
		r.Route("/cards", func(r chi.Router) {
			r.Get("/{cardID}", cardHandler.GetCard)
			r.Get("/name/{name}", cardHandler.GetCardByName)
		})

		poolHandler := handlers.NewPoolHandler(s.catalogs, s.config.PoolDefaults, s.config.Source, s.config.Metrics, s.logger)
		r.Post("/pools", poolHandler.GeneratePool)
		r.Get("/metrics", poolHandler.Metrics)
	})
}

type healthStatus struct {
	Status  string         `json:"status"`
	Service string         `json:"service"`
	Version string         `json:"version"`
	Catalog *catalog.Stats `json:"catalog,omitempty"`
}

// healthCheck returns server health status. The server is degraded until a
// catalog is loaded.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	status := healthStatus{
		Status:  "healthy",
		Service: "draftpool-api",
		Version: version.GetVersion(),
	}

	cat := s.catalogs.Current()
	if cat == nil {
		status.Status = "degraded"
		response.JSON(w, http.StatusServiceUnavailable, status)
		return
	}

	stats := cat.Stats()
	status.Catalog = &stats
	response.JSON(w, http.StatusOK, status)
}
