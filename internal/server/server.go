package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/Tejas1331/stock-volatility-ai/internal/agent"
	"github.com/Tejas1331/stock-volatility-ai/internal/inference"
	"github.com/Tejas1331/stock-volatility-ai/internal/logger"
	"github.com/Tejas1331/stock-volatility-ai/internal/model"
)

// Server exposes the analysis pipeline over HTTP.
type Server struct {
	pipeline *agent.Pipeline
	http     *http.Server
}

func New(addr string, pipeline *agent.Pipeline) *Server {
	s := &Server{pipeline: pipeline}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/analyze", s.handleAnalyze)
	return r
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok", "system": agent.SystemTag})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		writeError(w, r, http.StatusBadRequest, "ticker query parameter is required")
		return
	}

	report, err := s.pipeline.Run(ctx, ticker)
	if err != nil {
		status, msg := classifyError(err)
		logger.Warn(ctx, "Analyze request failed",
			"ticker", ticker, "status", status, "error", err)
		writeError(w, r, status, msg)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, report)
}

// classifyError maps pipeline errors onto the HTTP surface. External-service
// degradation never reaches here; the pipeline absorbs it.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, inference.ErrUnsupportedTicker):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, inference.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, model.ErrNotFound):
		return http.StatusServiceUnavailable, "no trained model for ticker, retrain required"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}
