// Package server exposes the batch analysis over HTTP: an HTML form, a
// JSON API and a liveness probe, all behind a shared-secret check.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/August26/vpncheck-go/internal/model"
)

// APIKeyHeader carries the shared secret on the JSON API.
const APIKeyHeader = "X-API-Key"

const maxBodyBytes = 1 << 20

// Runner analyzes a batch of IPs.
type Runner interface {
	Run(ctx context.Context, ips []string) ([]model.AnalysisResult, error)
}

type Server struct {
	runner Runner
	secret string
	log    *slog.Logger
}

func New(runner Runner, secret string, log *slog.Logger) *Server {
	return &Server{
		runner: runner,
		secret: secret,
		log:    log,
	}
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(s.log))
	r.Use(securityHeaders)
	r.Use(limitBody(maxBodyBytes))

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealthz)
	r.Post("/analyze", s.handleAnalyzeForm)
	r.Post("/analyze_ips", s.handleAnalyzeIPs)
	return r
}
