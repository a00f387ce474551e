package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/comprasys/cotacao-api/internal/auth"
	"github.com/comprasys/cotacao-api/internal/domain"
	"github.com/comprasys/cotacao-api/internal/mapper"
	"github.com/comprasys/cotacao-api/internal/repository"
	"github.com/comprasys/cotacao-api/internal/storage"
)

// MaxAttachmentSize caps uploads at 25 MB, large enough for supplier
// proposals and scanned documents.
const MaxAttachmentSize = 25 * 1024 * 1024

// AttachmentService stores quotation attachments: blob content in storage,
// metadata in the database.
type AttachmentService struct {
	attachmentRepo *repository.AttachmentRepository
	quotationRepo  *repository.QuotationRepository
	store          storage.Storage
	logger         *zap.Logger
}

func NewAttachmentService(
	attachmentRepo *repository.AttachmentRepository,
	quotationRepo *repository.QuotationRepository,
	store storage.Storage,
	logger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		quotationRepo:  quotationRepo,
		store:          store,
		logger:         logger,
	}
}

// Upload stores the file content and records the attachment against the
// quotation. The reader is capped; oversize uploads fail before any
// metadata is written.
func (s *AttachmentService) Upload(ctx context.Context, quotationID uuid.UUID, filename, contentType string, data io.Reader) (*domain.AttachmentDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if _, err := s.quotationRepo.GetByID(ctx, quotationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	limited := io.LimitReader(data, MaxAttachmentSize+1)
	storagePath, size, err := s.store.Upload(ctx, filename, contentType, limited)
	if err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}
	if size > MaxAttachmentSize {
		if delErr := s.store.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to remove oversize upload",
				zap.String("storagePath", storagePath),
				zap.Error(delErr),
			)
		}
		return nil, ErrAttachmentTooLarge
	}

	attachment := &domain.Attachment{
		QuotationID: quotationID,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		StoragePath: storagePath,
		UploadedBy:  userCtx.UserID,
	}
	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		if delErr := s.store.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload",
				zap.String("storagePath", storagePath),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to create attachment record: %w", err)
	}

	s.logger.Info("attachment uploaded",
		zap.String("quotationID", quotationID.String()),
		zap.String("filename", filename),
		zap.Int64("size", size),
	)

	dto := mapper.ToAttachmentDTO(attachment)
	return &dto, nil
}

// Download streams an attachment's content. The caller owns the reader.
func (s *AttachmentService) Download(ctx context.Context, id uuid.UUID) (*domain.Attachment, io.ReadCloser, error) {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAttachmentNotFound
		}
		return nil, nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	// Buyer scoping rides on the quotation lookup.
	if _, err := s.quotationRepo.GetByID(ctx, attachment.QuotationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAttachmentNotFound
		}
		return nil, nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	reader, err := s.store.Download(ctx, attachment.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download attachment: %w", err)
	}
	return attachment, reader, nil
}

func (s *AttachmentService) ListByQuotation(ctx context.Context, quotationID uuid.UUID) ([]domain.AttachmentDTO, error) {
	if _, err := s.quotationRepo.GetByID(ctx, quotationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	attachments, err := s.attachmentRepo.ListByQuotation(ctx, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	dtos := make([]domain.AttachmentDTO, len(attachments))
	for i, a := range attachments {
		dtos[i] = mapper.ToAttachmentDTO(&a)
	}
	return dtos, nil
}

func (s *AttachmentService) Delete(ctx context.Context, id uuid.UUID) error {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return fmt.Errorf("failed to get attachment: %w", err)
	}

	if _, err := s.quotationRepo.GetByID(ctx, attachment.QuotationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return fmt.Errorf("failed to get quotation: %w", err)
	}

	if err := s.attachmentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete attachment record: %w", err)
	}
	if err := s.store.Delete(ctx, attachment.StoragePath); err != nil {
		// Metadata is gone; an orphaned blob only wastes space.
		s.logger.Warn("failed to delete attachment blob",
			zap.String("storagePath", attachment.StoragePath),
			zap.Error(err),
		)
	}
	return nil
}
