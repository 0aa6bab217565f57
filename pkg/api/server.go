// Package api serves the search page, a JSON search endpoint, health checks
// and metrics over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"

	"github.com/rubiojr/setsearch/pkg/app"
	"github.com/rubiojr/setsearch/pkg/log"
	"github.com/rubiojr/setsearch/pkg/metrics"
)

type Server struct {
	app     atomic.Pointer[app.App]
	metrics *metrics.Metrics
	router  *chi.Mux
	logger  *log.Logger
}

// NewServer returns a server answering with a. m may be nil, in which case
// /metrics is not routed.
func NewServer(a *app.App, m *metrics.Metrics) *Server {
	s := &Server{
		metrics: m,
		router:  chi.NewRouter(),
		logger:  log.ForService("api"),
	}
	s.app.Store(a)

	s.router.Use(middleware.RealIP)
	s.router.Use(RequestID)
	s.router.Use(s.instrument)
	s.router.Use(middleware.Recoverer)
	s.RegisterRoutes(s.router)
	return s
}

// App returns the pipeline currently serving requests.
func (s *Server) App() *app.App {
	return s.app.Load()
}

// Swap replaces the pipeline for subsequent requests and returns the
// previous one. In-flight requests finish with the old pipeline.
func (s *Server) Swap(a *app.App) *app.App {
	return s.app.Swap(a)
}

// Handler returns the routes with gzip compression.
func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(s.router)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("Error encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}
