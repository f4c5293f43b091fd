// Package api exposes the operational HTTP surface: health checks,
// manual run triggering, and a configuration summary.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"newsrobot/internal/usecase"
)

// Runner executes a newsletter run on demand.
type Runner interface {
	Run(ctx context.Context) (usecase.RunReport, error)
	LedgerSize() int
}

// Status summarizes the effective configuration for operators.
type Status struct {
	Sites      int    `json:"sites"`
	Topics     int    `json:"topics"`
	TargetSize int    `json:"targetSize"`
	TopicCap   int    `json:"topicCap"`
	Matcher    string `json:"matcher"`
	Writer     string `json:"writer"`
	LedgerSize int    `json:"ledgerSize"`
}

// Server holds dependencies for the HTTP handlers.
type Server struct {
	runner Runner
	status Status
	logger *slog.Logger
	mux    *http.ServeMux
}

// New wires up routes and returns a ready-to-use Server.
func New(runner Runner, status Status, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{runner: runner, status: status, logger: logger.With("component", "api"), mux: http.NewServeMux()}
	srv.routes()
	return srv
}

// ServeHTTP makes Server satisfy the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /config/status", s.handleStatus)
	s.mux.HandleFunc("POST /run", s.handleRun)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	status := s.status
	status.LedgerSize = s.runner.LedgerSize()
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	report, err := s.runner.Run(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrRunInFlight) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "a run is already in progress"})
			return
		}
		s.logger.Error("manual run failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.logger.Info("manual run finished", "selected", report.Selected, "postUrl", report.PostURL)
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
