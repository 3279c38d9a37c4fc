// Package api serves the memo and infographic flows over HTTP for local UI
// use. One generation runs at a time; concurrent requests get a 429.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/meridian-research/memogen/internal/config"
	"github.com/meridian-research/memogen/internal/outline"
	"github.com/meridian-research/memogen/internal/pipeline"
	"github.com/meridian-research/memogen/internal/store"
)

// Generator runs the generation flows for API requests. *pipeline.Generator
// satisfies it.
type Generator interface {
	GenerateMemo(ctx context.Context, req pipeline.MemoRequest) (*pipeline.MemoResult, error)
	GenerateInfographic(ctx context.Context, req pipeline.InfographicRequest) (*pipeline.InfographicResult, error)
}

// Server is the HTTP front end over the generation pipeline.
type Server struct {
	cfg      *config.Config
	gen      Generator
	store    store.Store
	registry *outline.Registry
	router   chi.Router

	// busy serializes generation; both flows call the completion API and
	// interleaving them would also interleave session updates.
	busy sync.Mutex
}

// NewServer wires the routes and middleware around the given dependencies.
func NewServer(cfg *config.Config, gen Generator, st store.Store, reg *outline.Registry) *Server {
	s := &Server{cfg: cfg, gen: gen, store: st, registry: reg}
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(zap.L()))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/situations", s.handleSituations)
		r.Post("/memo", s.handleMemo)
		r.Post("/infographic", s.handleInfographic)
		r.Get("/runs", s.handleRuns)
		r.Get("/runs/{runID}", s.handleRun)
	})

	s.router = r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
