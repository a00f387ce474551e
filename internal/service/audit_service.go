package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/comprasys/cotacao-api/internal/domain"
	"github.com/comprasys/cotacao-api/internal/mapper"
	"github.com/comprasys/cotacao-api/internal/repository"
)

// AuditService reads the quotation event trail. Events are appended by the
// quotation and lifecycle services; nothing here mutates.
type AuditService struct {
	eventRepo     *repository.EventRepository
	quotationRepo *repository.QuotationRepository
	logger        *zap.Logger
}

func NewAuditService(eventRepo *repository.EventRepository, quotationRepo *repository.QuotationRepository, logger *zap.Logger) *AuditService {
	return &AuditService{eventRepo: eventRepo, quotationRepo: quotationRepo, logger: logger}
}

// ListByQuotation returns a quotation's events oldest first, the order the
// trail reads naturally. Buyer scoping comes from the quotation lookup.
func (s *AuditService) ListByQuotation(ctx context.Context, quotationID uuid.UUID) ([]domain.QuotationEventDTO, error) {
	if _, err := s.quotationRepo.GetByID(ctx, quotationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	events, err := s.eventRepo.ListByQuotation(ctx, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	dtos := make([]domain.QuotationEventDTO, len(events))
	for i, event := range events {
		dtos[i] = mapper.ToQuotationEventDTO(&event)
	}
	return dtos, nil
}

// List pages through the whole trail, filtered. Admin surface.
func (s *AuditService) List(ctx context.Context, filter *repository.EventFilter, page, pageSize int) (*domain.PaginatedResponse, error) {
	events, total, err := s.eventRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	dtos := make([]domain.QuotationEventDTO, len(events))
	for i, event := range events {
		dtos[i] = mapper.ToQuotationEventDTO(&event)
	}

	if pageSize < 1 {
		pageSize = 20
	}
	if page < 1 {
		page = 1
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
