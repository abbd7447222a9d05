// Package httpapi exposes the career mentor over HTTP: JSON endpoints for
// the batch orchestrations and a WebSocket endpoint for live interviews.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hupe1980/careermesh/interview"
	"github.com/hupe1980/careermesh/orchestrate"
)

// Handler bundles the orchestrator and the interview machine behind one
// router.
type Handler struct {
	orchestrator *orchestrate.Orchestrator
	machine      *interview.Machine
	logger       *slog.Logger
}

// NewHandler creates a Handler over the given components.
func NewHandler(orchestrator *orchestrate.Orchestrator, machine *interview.Machine, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		orchestrator: orchestrator,
		machine:      machine,
		logger:       logger,
	}
}

// Routes builds the chi router with all endpoints mounted.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/full-analysis", h.handleFullAnalysis)
		r.Post("/roadmap", h.handleRoadmap)
		r.Get("/market/trends", h.handleMarketTrends)
		r.Get("/interview/ws/{sessionID}", h.handleInterviewWS)
	})

	return r
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func (h *Handler) handleFullAnalysis(w http.ResponseWriter, r *http.Request) {
	var req orchestrate.FullAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ResumeText == "" || req.TargetRole == "" {
		Error(w, http.StatusBadRequest, "resume_text and target_role are required")
		return
	}
	if req.Location == "" {
		req.Location = "Remote"
	}

	start := time.Now()
	result, err := h.orchestrator.RunFullAnalysis(r.Context(), req)
	if err != nil {
		h.logger.Error("full analysis failed", "error", err, "target_role", req.TargetRole)
		Error(w, http.StatusBadGateway, "analysis failed, please retry")
		return
	}
	h.logger.Info("full analysis done",
		"target_role", req.TargetRole,
		"duration_ms", time.Since(start).Milliseconds(),
		"budget_exhausted", result.BudgetExhausted,
	)
	JSON(w, http.StatusOK, result)
}

func (h *Handler) handleRoadmap(w http.ResponseWriter, r *http.Request) {
	var req orchestrate.RoadmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TargetRole == "" {
		Error(w, http.StatusBadRequest, "target_role is required")
		return
	}
	if len(req.SkillGaps) == 0 {
		Error(w, http.StatusBadRequest, "skill_gaps must not be empty")
		return
	}

	result, err := h.orchestrator.GenerateRoadmap(r.Context(), req)
	if errors.Is(err, orchestrate.ErrEmptyRoadmap) {
		Error(w, http.StatusBadGateway, "agent returned an empty roadmap")
		return
	}
	if err != nil {
		h.logger.Error("roadmap generation failed", "error", err, "target_role", req.TargetRole)
		Error(w, http.StatusBadGateway, "roadmap generation failed, please retry")
		return
	}
	JSON(w, http.StatusOK, result)
}

func (h *Handler) handleMarketTrends(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		Error(w, http.StatusBadRequest, "role query parameter is required")
		return
	}
	location := r.URL.Query().Get("location")
	if location == "" {
		location = "Remote"
	}

	trends, err := h.orchestrator.ResearchMarket(r.Context(), orchestrate.MarketRequest{
		Role:     role,
		Location: location,
	})
	if err != nil {
		h.logger.Error("market research failed", "error", err, "role", role)
		Error(w, http.StatusBadGateway, "market research failed, please retry")
		return
	}
	JSON(w, http.StatusOK, trends)
}
