package handler

// This file contains the lifecycle transition handlers for the
// QuotationHandler: submit, forward, approve, reject, renegotiation and
// resubmit. Every endpoint takes the caller's lockVersion and answers 409
// when the quotation changed underneath them.

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/domain"
)

// @Summary Submit quotation for review
// @Description Transitions a pending quotation to in_analysis. Every item must have a positive unit price.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body domain.SubmitQuotationRequest true "Lock version"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.ErrorResponse "Quotation not pending or has unpriced items"
// @Failure 409 {object} domain.ErrorResponse "Quotation was modified concurrently"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/submit [post]
func (h *QuotationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	var req domain.SubmitQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Empty body means lockVersion 0
		req = domain.SubmitQuotationRequest{}
	}

	quotation, err := h.lifecycleService.Submit(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to submit quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		h.handleQuotationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// @Summary Forward quotation for approval
// @Description Transitions an in_analysis quotation to awaiting_approval. Supervisor action.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body domain.ForwardQuotationRequest true "Lock version"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.ErrorResponse "Quotation not in analysis"
// @Failure 409 {object} domain.ErrorResponse "Quotation was modified concurrently"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/forward [post]
func (h *QuotationHandler) Forward(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	var req domain.ForwardQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = domain.ForwardQuotationRequest{}
	}

	quotation, err := h.lifecycleService.Forward(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to forward quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		h.handleQuotationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// @Summary Approve quotation
// @Description Approves the quotation. approvalType decides which items win: manual takes the listed
// @Description items, best_price/best_delivery/best_payment resolve against the comparison per product,
// @Description custom_selection unions the per-criterion picks. A saving record is captured atomically.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body domain.ApproveQuotationRequest true "Approval data"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.ErrorResponse "Invalid approval type, missing reason, or unresolvable items"
// @Failure 409 {object} domain.ErrorResponse "Quotation was modified concurrently"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/approve [post]
func (h *QuotationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	var req domain.ApproveQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.lifecycleService.Approve(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to approve quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		h.handleQuotationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// @Summary Reject quotation
// @Description Rejects the quotation with a mandatory reason. Terminal for this version.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body domain.RejectQuotationRequest true "Rejection reason"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.ErrorResponse "Missing reason or quotation not awaiting approval"
// @Failure 409 {object} domain.ErrorResponse "Quotation was modified concurrently"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/reject [post]
func (h *QuotationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	var req domain.RejectQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.lifecycleService.Reject(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to reject quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		h.handleQuotationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// @Summary Request renegotiation
// @Description Sends selected items back to suppliers for a new round. Opens a new version whose
// @Description editable item set is the full previous set; the selection only flags the lines.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body domain.RenegotiationRequest true "Selected items and justification"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.ErrorResponse "No items selected, missing justification, or unresolvable items"
// @Failure 409 {object} domain.ErrorResponse "Quotation was modified concurrently"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/renegotiation [post]
func (h *QuotationHandler) RequestRenegotiation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	var req domain.RenegotiationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.lifecycleService.RequestRenegotiation(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to request renegotiation", zap.Error(err), zap.String("quotation_id", id.String()))
		h.handleQuotationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// @Summary Resubmit quotation after renegotiation
// @Description Replaces the offer rows with the renegotiated values and re-enters the pipeline as
// @Description pending. The full item set must be supplied; previously flagged lines keep their marker.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body domain.ResubmitQuotationRequest true "Updated supplier rows"
// @Success 200 {object} createResponse
// @Failure 400 {object} domain.ErrorResponse "Quotation not in renegotiation or no items supplied"
// @Failure 409 {object} domain.ErrorResponse "Quotation was modified concurrently"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/resubmit [post]
func (h *QuotationHandler) Resubmit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	var req domain.ResubmitQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, issues, err := h.lifecycleService.Resubmit(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to resubmit quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		h.handleQuotationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, createResponse{Quotation: quotation, ParseIssues: issues})
}
