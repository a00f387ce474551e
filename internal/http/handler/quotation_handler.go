package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/domain"
	"github.com/comprasys/cotacao-api/internal/service"
)

type QuotationHandler struct {
	quotationService *service.QuotationService
	lifecycleService *service.QuotationLifecycleService
	logger           *zap.Logger
}

func NewQuotationHandler(quotationService *service.QuotationService, lifecycleService *service.QuotationLifecycleService, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		lifecycleService: lifecycleService,
		logger:           logger,
	}
}

// createResponse wraps a quotation payload together with the normalization
// issues so the client can surface coerced values to the buyer.
type createResponse struct {
	Quotation   *domain.QuotationDTO   `json:"quotation"`
	ParseIssues []domain.ParseIssueDTO `json:"parseIssues,omitempty"`
}

// @Summary List quotations
// @Tags Quotations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Filter by status" Enums(pending, in_analysis, awaiting_approval, approved, rejected, renegotiation)
// @Param purchaseType query string false "Filter by purchase type" Enums(scheduled, emergency)
// @Param buyerId query string false "Filter by buyer (approvers only)"
// @Param search query string false "Search delivery place or buyer name"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations [get]
func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := domain.ListQuotationsQuery{
		Status:       r.URL.Query().Get("status"),
		PurchaseType: r.URL.Query().Get("purchaseType"),
		BuyerID:      r.URL.Query().Get("buyerId"),
		Search:       r.URL.Query().Get("search"),
	}
	q.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	q.PageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))

	result, err := h.quotationService.List(r.Context(), q)
	if err != nil {
		h.logger.Error("failed to list quotations", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list quotations")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Create quotation
// @Description Creates a quotation from raw supplier rows. Numeric fields are accepted as text
// @Description (pt-BR or dotted decimals); values that cannot be parsed are coerced to zero and
// @Description reported in parseIssues rather than rejected.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param request body domain.CreateQuotationRequest true "Quotation data"
// @Success 201 {object} createResponse
// @Failure 400 {object} domain.ErrorResponse "Validation error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations [post]
func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, issues, err := h.quotationService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create quotation", zap.Error(err))
		h.handleQuotationError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/quotations/"+quotation.ID.String())
	respondJSON(w, http.StatusCreated, createResponse{Quotation: quotation, ParseIssues: issues})
}

// @Summary Get quotation
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.QuotationDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id} [get]
func (h *QuotationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	quotation, err := h.quotationService.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		h.handleQuotationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// @Summary Update quotation header
// @Description Edits header fields while the quotation is still pending. Requires the current lockVersion.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body domain.UpdateQuotationRequest true "Header fields"
// @Success 200 {object} domain.QuotationDTO
// @Failure 409 {object} domain.ErrorResponse "Quotation was modified concurrently"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id} [put]
func (h *QuotationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	var req domain.UpdateQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		h.handleQuotationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// @Summary Delete quotation
// @Description Deletes a pending quotation. Submitted quotations are part of the audit trail and cannot be deleted.
// @Tags Quotations
// @Param id path string true "Quotation ID"
// @Success 204 "Deleted"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id} [delete]
func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	if err := h.quotationService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		h.handleQuotationError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// @Summary List quotation versions
// @Description Returns the immutable snapshot history, newest first.
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {array} domain.QuotationVersionDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/versions [get]
func (h *QuotationHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	versions, err := h.quotationService.ListVersions(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list versions", zap.Error(err), zap.String("quotation_id", id.String()))
		h.handleQuotationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, versions)
}

func (h *QuotationHandler) handleQuotationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrQuotationNotFound):
		respondWithError(w, http.StatusNotFound, "Quotation not found")
	case errors.Is(err, service.ErrQuotationNotEditable):
		respondWithError(w, http.StatusBadRequest, "Quotation can only be edited while pending")
	case errors.Is(err, service.ErrStaleQuotation):
		respondWithError(w, http.StatusConflict, "Quotation was modified concurrently, reload and retry")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrPermissionDenied):
		respondWithError(w, http.StatusForbidden, "Forbidden")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
