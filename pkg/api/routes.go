package api

import "github.com/go-chi/chi/v5"

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/", s.HandleSearchPage)
	r.Get("/api/search", s.HandleSearch)
	r.Get("/health", s.HandleHealth)
	if s.metrics != nil {
		r.Method("GET", "/metrics", s.metrics.Handler())
	}
}
