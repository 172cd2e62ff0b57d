// Package api exposes the index computation over HTTP so non-Go pipelines
// can reuse the same engine bridge. One endpoint accepts a model, a
// covariance matrix, and a sample size, and answers with the eight
// supplemental indices.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/tmsalab/pathmodelfit"
	"github.com/tmsalab/pathmodelfit/internal/ctxlog"
	"github.com/tmsalab/pathmodelfit/internal/render"
)

// Server routes analysis requests to an estimation engine.
type Server struct {
	router *chi.Mux
	engine pathmodelfit.Engine
	logger *slog.Logger
}

// NewServer assembles the HTTP surface around the given engine.
func NewServer(engine pathmodelfit.Engine, logger *slog.Logger) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("estimation engine required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{router: chi.NewRouter(), engine: engine, logger: logger}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/v1/analyses", s.handleAnalyze)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	Model      string        `json:"model"`
	Covariance analyzeMatrix `json:"covariance"`
	SampleSize int           `json:"sample_size"`
}

type analyzeMatrix struct {
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"`
}

type analyzeResponse struct {
	ChiSquare float64 `json:"chisq"`
	DF        float64 `json:"df"`
	Indices   any     `json:"indices"`
}

// handleAnalyze runs the full pipeline for one posted analysis. Input
// problems answer 400, a non-converged or unidentified model answers 422,
// anything else is a 500.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed request body: %w", err))
		return
	}
	sample, err := pathmodelfit.NewMatrix(req.Covariance.Labels, req.Covariance.Values)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx := ctxlog.WithLogger(r.Context(), s.logger)
	s.logger.Info("Analysis request",
		"remote_addr", r.RemoteAddr,
		"variables", sample.Dim(),
		"sample_size", req.SampleSize)

	fitted, err := pathmodelfit.Fit(ctx, s.engine, req.Model, sample, req.SampleSize)
	if err != nil {
		writeFitError(w, s.logger, err)
		return
	}
	result, err := fitted.Compute(ctx)
	if err != nil {
		writeFitError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		ChiSquare: fitted.ChiSquare(),
		DF:        fitted.DF(),
		Indices:   render.JSONValue(result),
	})
}

func writeFitError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var estErr *pathmodelfit.EstimationError
	switch {
	case errors.Is(err, pathmodelfit.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err)
	case errors.As(err, &estErr):
		logger.Warn("Estimation failed", "variant", estErr.Variant, "error", estErr.Err)
		writeError(w, http.StatusUnprocessableEntity, err)
	default:
		logger.Error("Analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
