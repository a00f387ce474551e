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

// AuditHandler exposes the quotation event trail.
type AuditHandler struct {
	auditService *service.AuditService
	logger       *zap.Logger
}

func NewAuditHandler(auditService *service.AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// @Summary Get quotation event trail
// @Description Returns every recorded lifecycle event of a quotation, oldest first.
// @Tags Audit
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {array} domain.QuotationEventDTO
// @Failure 404 {object} domain.ErrorResponse "Quotation not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/events [get]
func (h *AuditHandler) ListByQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	events, err := h.auditService.ListByQuotation(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list quotation events", zap.Error(err), zap.String("quotation_id", id.String()))
		if errors.Is(err, service.ErrQuotationNotFound) {
			respondWithError(w, http.StatusNotFound, "Quotation not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	respondJSON(w, http.StatusOK, events)
}

// @Summary List audit events
// @Description Pages through the full event trail with filters. Admin surface.
// @Tags Audit
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param quotationId query string false "Filter by quotation"
// @Param kind query string false "Filter by event kind"
// @Param actorId query string false "Filter by actor"
// @Param startDate query string false "Filter from date (RFC 3339)"
// @Param endDate query string false "Filter to date (RFC 3339)"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit/events [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	filter := &repository.EventFilter{
		ActorID: r.URL.Query().Get("actorId"),
	}
	if v := r.URL.Query().Get("kind"); v != "" {
		kind := domain.QuotationEventKind(v)
		filter.Kind = &kind
	}
	if v := r.URL.Query().Get("quotationId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid quotationId: must be a valid UUID")
			return
		}
		filter.QuotationID = &id
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

	result, err := h.auditService.List(r.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.Error("failed to list audit events", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
