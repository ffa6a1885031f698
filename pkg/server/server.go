// Package server implements the flowmark preview server.
//
// The server exposes a small JSON API over chi:
//   - POST /api/render: render flowchart text to svg, png, pdf, or dot
//   - POST /api/format: reformat flowchart text into canonical form
//   - CRUD /api/diagrams: stored diagram documents
//   - GET /healthz: liveness probe
//
// Rendered artifacts are cached by source hash so repeated previews of
// the same text skip the layout engine.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flowmark/pkg/cache"
	"github.com/matzehuels/flowmark/pkg/store"
)

// Config configures the preview server.
type Config struct {
	Store  store.Store
	Cache  cache.Cache
	Logger *log.Logger

	// RenderTTL bounds how long rendered artifacts stay cached.
	// Zero means cache without expiry.
	RenderTTL time.Duration
}

// Server handles preview API requests.
type Server struct {
	store     store.Store
	cache     cache.Cache
	logger    *log.Logger
	renderTTL time.Duration
}

// New creates a server. Nil Store disables the diagram endpoints with
// 503 responses; nil Cache disables render caching.
func New(cfg Config) *Server {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Server{
		store:     cfg.Store,
		cache:     cfg.Cache,
		logger:    cfg.Logger,
		renderTTL: cfg.RenderTTL,
	}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/format", s.handleFormat)

		r.Route("/diagrams", func(r chi.Router) {
			r.Get("/", s.handleListDiagrams)
			r.Post("/", s.handleCreateDiagram)
			r.Get("/{id}", s.handleGetDiagram)
			r.Put("/{id}", s.handleUpdateDiagram)
			r.Delete("/{id}", s.handleDeleteDiagram)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
