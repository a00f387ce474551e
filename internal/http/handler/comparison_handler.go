package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/service"
)

type ComparisonHandler struct {
	comparisonService *service.ComparisonService
	logger            *zap.Logger
}

func NewComparisonHandler(comparisonService *service.ComparisonService, logger *zap.Logger) *ComparisonHandler {
	return &ComparisonHandler{comparisonService: comparisonService, logger: logger}
}

// @Summary Get quotation comparison
// @Description Returns the comparative analysis of a quotation version: offers grouped by product,
// @Description best price (with ties), best delivery and best payment per group, and the savings
// @Description report against the three baselines. Groups keyed only by product name are flagged.
// @Tags Comparison
// @Produce json
// @Param id path string true "Quotation ID"
// @Param version query int false "Version number (defaults to current)"
// @Success 200 {object} domain.ComparisonDTO
// @Failure 400 {object} domain.ErrorResponse "Invalid quotation ID or version"
// @Failure 404 {object} domain.ErrorResponse "Quotation not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/comparison [get]
func (h *ComparisonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	version := 0
	if v := r.URL.Query().Get("version"); v != "" {
		version, err = strconv.Atoi(v)
		if err != nil || version < 1 {
			respondWithError(w, http.StatusBadRequest, "Invalid version: must be a positive integer")
			return
		}
	}

	comparison, err := h.comparisonService.BuildForQuotation(r.Context(), id, version)
	if err != nil {
		h.logger.Error("failed to build comparison", zap.Error(err), zap.String("quotation_id", id.String()))
		switch {
		case errors.Is(err, service.ErrQuotationNotFound):
			respondWithError(w, http.StatusNotFound, "Quotation not found")
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to build comparison")
		}
		return
	}

	respondJSON(w, http.StatusOK, comparison)
}
