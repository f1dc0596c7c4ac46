// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/ports/inbound"
	"github.com/mealforge/v1/internal/ports/outbound"
	apperrors "github.com/mealforge/v1/pkg/errors"
)

// PlanAPIHandlers handles the meal-plan REST endpoints
type PlanAPIHandlers struct {
	plannerService inbound.PlannerService
	loader         outbound.CorpusLoader
	cache          outbound.CacheRepository
	logger         *zap.Logger
}

// NewPlanAPIHandlers creates a new plan API handlers instance
func NewPlanAPIHandlers(
	plannerService inbound.PlannerService,
	loader outbound.CorpusLoader,
	cache outbound.CacheRepository,
	logger *zap.Logger,
) *PlanAPIHandlers {
	return &PlanAPIHandlers{
		plannerService: plannerService,
		loader:         loader,
		cache:          cache,
		logger:         logger,
	}
}

// GeneratePlan handles POST /generate-plan
func (h *PlanAPIHandlers) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.GeneratePlanCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}

	plan, err := h.plannerService.GeneratePlan(r.Context(), cmd)
	if err != nil {
		h.writeAppError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"plan":   plan,
	})
}

// ReplaceMeal handles POST /replace-meal
func (h *PlanAPIHandlers) ReplaceMeal(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.ReplaceMealCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}

	meal, err := h.plannerService.ReplaceMeal(r.Context(), cmd)
	if err != nil {
		h.writeAppError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"day":    cmd.Day,
		"slot":   meal.Slot,
		"meal":   meal,
	})
}

// SearchFoods handles GET /foods/search
func (h *PlanAPIHandlers) SearchFoods(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	items, err := h.plannerService.SearchRecipes(r.Context(), inbound.SearchQuery{Query: q, Limit: limit})
	if err != nil {
		h.writeAppError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"q":      q,
		"count":  len(items),
		"items":  items,
	})
}

// Status handles GET /status
func (h *PlanAPIHandlers) Status(w http.ResponseWriter, r *http.Request) {
	status := h.loader.Status()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"corpus": status,
	})
}

// ReloadDataset handles POST /reload-dataset
func (h *PlanAPIHandlers) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := h.loader.Load(ctx); err != nil {
		h.writeAppError(w, err)
		return
	}

	// Plans composed from the previous snapshot must not be served anymore.
	if h.cache != nil {
		if err := h.cache.Flush(ctx); err != nil {
			h.logger.Warn("cache flush after reload failed", zap.Error(err))
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"corpus": h.loader.Status(),
	})
}

// writeAppError maps service errors onto the wire error envelope.
func (h *PlanAPIHandlers) writeAppError(w http.ResponseWriter, err error) {
	if appErr, ok := apperrors.IsAppError(err); ok {
		message := appErr.Message
		if appErr.Details != "" {
			message = message + ": " + appErr.Details
		}
		h.writeError(w, appErr.StatusCode(), message)
		return
	}

	h.logger.Error("unhandled service error", zap.Error(err))
	h.writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
}

func (h *PlanAPIHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
	})
}

func (h *PlanAPIHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
