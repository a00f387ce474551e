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

// SavingService exposes the persisted economy records procurement reports
// against. Records are created by the lifecycle service at approval time;
// this service only reads them.
type SavingService struct {
	savingRepo *repository.SavingRepository
	logger     *zap.Logger
}

func NewSavingService(savingRepo *repository.SavingRepository, logger *zap.Logger) *SavingService {
	return &SavingService{savingRepo: savingRepo, logger: logger}
}

func (s *SavingService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavingDTO, error) {
	saving, err := s.savingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSavingNotFound
		}
		return nil, fmt.Errorf("failed to get saving: %w", err)
	}
	dto := mapper.ToSavingDTO(saving)
	return &dto, nil
}

func (s *SavingService) GetByQuotation(ctx context.Context, quotationID uuid.UUID) (*domain.SavingDTO, error) {
	saving, err := s.savingRepo.GetByQuotation(ctx, quotationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSavingNotFound
		}
		return nil, fmt.Errorf("failed to get saving: %w", err)
	}
	dto := mapper.ToSavingDTO(saving)
	return &dto, nil
}

func (s *SavingService) List(ctx context.Context, filter *repository.SavingFilter, page, pageSize int) (*domain.PaginatedResponse, error) {
	savings, total, err := s.savingRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings: %w", err)
	}

	dtos := make([]domain.SavingDTO, len(savings))
	for i, saving := range savings {
		dtos[i] = mapper.ToSavingDTO(&saving)
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
