package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/service"
)

type AttachmentHandler struct {
	attachmentService *service.AttachmentService
	maxUploadMB       int64
	logger            *zap.Logger
}

func NewAttachmentHandler(attachmentService *service.AttachmentService, maxUploadMB int64, logger *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		maxUploadMB:       maxUploadMB,
		logger:            logger,
	}
}

// @Summary Upload attachment
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Quotation ID"
// @Param file formData file true "File to upload"
// @Success 201 {object} domain.AttachmentDTO
// @Failure 413 {object} domain.ErrorResponse "File too large"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/attachments [post]
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	quotationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	attachment, err := h.attachmentService.Upload(r.Context(), quotationID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.Error("failed to upload attachment", zap.Error(err), zap.String("quotation_id", quotationID.String()))
		h.handleAttachmentError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, attachment)
}

// @Summary List attachments
// @Tags Attachments
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {array} domain.AttachmentDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/attachments [get]
func (h *AttachmentHandler) ListByQuotation(w http.ResponseWriter, r *http.Request) {
	quotationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	attachments, err := h.attachmentService.ListByQuotation(r.Context(), quotationID)
	if err != nil {
		h.logger.Error("failed to list attachments", zap.Error(err), zap.String("quotation_id", quotationID.String()))
		h.handleAttachmentError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, attachments)
}

// @Summary Download attachment
// @Tags Attachments
// @Produce application/octet-stream
// @Param id path string true "Attachment ID"
// @Success 200
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /attachments/{id}/download [get]
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid attachment ID: must be a valid UUID")
		return
	}

	attachment, reader, err := h.attachmentService.Download(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to download attachment", zap.Error(err), zap.String("attachment_id", id.String()))
		h.handleAttachmentError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", "attachment; filename=\""+attachment.Filename+"\"")
	w.Header().Set("Content-Type", attachment.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(attachment.Size, 10))

	_, _ = io.Copy(w, reader)
}

// @Summary Delete attachment
// @Tags Attachments
// @Param id path string true "Attachment ID"
// @Success 204 "Deleted"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /attachments/{id} [delete]
func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid attachment ID: must be a valid UUID")
		return
	}

	if err := h.attachmentService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete attachment", zap.Error(err), zap.String("attachment_id", id.String()))
		h.handleAttachmentError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *AttachmentHandler) handleAttachmentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAttachmentNotFound):
		respondWithError(w, http.StatusNotFound, "Attachment not found")
	case errors.Is(err, service.ErrQuotationNotFound):
		respondWithError(w, http.StatusNotFound, "Quotation not found")
	case errors.Is(err, service.ErrAttachmentTooLarge):
		respondWithError(w, http.StatusRequestEntityTooLarge, "File exceeds the maximum attachment size")
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
