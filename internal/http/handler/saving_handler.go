package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/domain"
	"github.com/comprasys/cotacao-api/internal/repository"
	"github.com/comprasys/cotacao-api/internal/service"
)

type SavingHandler struct {
	savingService *service.SavingService
	logger        *zap.Logger
}

func NewSavingHandler(savingService *service.SavingService, logger *zap.Logger) *SavingHandler {
	return &SavingHandler{savingService: savingService, logger: logger}
}

// @Summary List savings
// @Tags Savings
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param buyerId query string false "Filter by buyer (approvers only)"
// @Param purchaseType query string false "Filter by purchase type" Enums(scheduled, emergency)
// @Param status query string false "Filter by status" Enums(concluded, partial)
// @Param startDate query string false "Filter from date (RFC 3339)"
// @Param endDate query string false "Filter to date (RFC 3339)"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /savings [get]
func (h *SavingHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	filter := &repository.SavingFilter{
		BuyerID: r.URL.Query().Get("buyerId"),
	}
	if v := r.URL.Query().Get("purchaseType"); v != "" {
		pt := domain.PurchaseType(v)
		if !pt.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid purchaseType: must be scheduled or emergency")
			return
		}
		filter.PurchaseType = &pt
	}
	if v := r.URL.Query().Get("status"); v != "" {
		st := domain.SavingStatus(v)
		if !st.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be concluded or partial")
			return
		}
		filter.Status = &st
	}
	if v := r.URL.Query().Get("startDate"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.StartTime = &t
		}
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.EndTime = &t
		}
	}

	result, err := h.savingService.List(r.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.Error("failed to list savings", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list savings")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Get saving
// @Tags Savings
// @Produce json
// @Param id path string true "Saving ID"
// @Success 200 {object} domain.SavingDTO
// @Failure 404 {object} domain.ErrorResponse "Saving not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /savings/{id} [get]
func (h *SavingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid saving ID: must be a valid UUID")
		return
	}

	saving, err := h.savingService.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get saving", zap.Error(err), zap.String("saving_id", id.String()))
		if errors.Is(err, service.ErrSavingNotFound) {
			respondWithError(w, http.StatusNotFound, "Saving not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to get saving")
		return
	}

	respondJSON(w, http.StatusOK, saving)
}

// @Summary Get saving by quotation
// @Tags Savings
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.SavingDTO
// @Failure 404 {object} domain.ErrorResponse "No saving recorded for this quotation"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/saving [get]
func (h *SavingHandler) GetByQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	saving, err := h.savingService.GetByQuotation(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get saving by quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		if errors.Is(err, service.ErrSavingNotFound) {
			respondWithError(w, http.StatusNotFound, "No saving recorded for this quotation")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to get saving")
		return
	}

	respondJSON(w, http.StatusOK, saving)
}
