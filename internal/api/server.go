package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/haven/internal/engine"
	"github.com/MikeSquared-Agency/haven/internal/report"
	"github.com/MikeSquared-Agency/haven/internal/state"
	"github.com/MikeSquared-Agency/haven/internal/store"
)

// Engine is the part of the intake engine the HTTP surface needs.
type Engine interface {
	Process(ctx context.Context, sessionID, text string) (*engine.Turn, error)
	Reset(sessionID string) bool
	Snapshot(sessionID string) (*state.Conversation, bool)
	Sessions() *state.Store
}

// ReportStore persists reports. It is optional.
type ReportStore interface {
	SaveTurn(ctx context.Context, r store.Report, turn store.TurnRecord) (uuid.UUID, error)
	GetReport(ctx context.Context, sessionID string) (*store.Report, error)
	DeleteReport(ctx context.Context, sessionID string) error
}

// Options configures the server. Zero values select defaults.
type Options struct {
	Port            int
	APIToken        string
	MaxMessageBytes int64
	Metrics         bool
	Reports         ReportStore
	Logger          *slog.Logger
}

type Server struct {
	router  *chi.Mux
	http    *http.Server
	port    int
	engine  Engine
	schema  *report.Schema
	reports ReportStore
	maxBody int64
	logger  *slog.Logger
}

func NewServer(eng Engine, schema *report.Schema, opts Options) *Server {
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = 8192
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:  router,
		port:    opts.Port,
		engine:  eng,
		schema:  schema,
		reports: opts.Reports,
		maxBody: opts.MaxMessageBytes,
		logger:  opts.Logger,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/haven/status", s.status)
	if opts.Metrics {
		router.Handle("/metrics", promhttp.Handler())
	}

	router.Group(func(r chi.Router) {
		r.Use(BearerAuthMiddleware(opts.APIToken))
		r.Get("/api/v1/forms", s.forms)
		r.Post("/api/v1/sessions/{id}/messages", s.postMessage)
		r.Get("/api/v1/sessions/{id}/report", s.getReport)
		r.Delete("/api/v1/sessions/{id}", s.resetSession)
	})

	return s
}

// Handler exposes the router, mainly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("API server starting", "addr", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agent":           "haven",
		"status":          "ok",
		"active_sessions": s.engine.Sessions().Len(),
		"persistence":     s.reports != nil,
	})
}

func (s *Server) forms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.schema)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
