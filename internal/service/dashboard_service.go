package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/domain"
	"github.com/comprasys/cotacao-api/internal/quote"
	"github.com/comprasys/cotacao-api/internal/repository"
)

// DashboardService aggregates pipeline counts and economy figures for the
// buyer dashboard. All numbers are buyer scoped through the repositories.
type DashboardService struct {
	quotationRepo *repository.QuotationRepository
	savingRepo    *repository.SavingRepository
	logger        *zap.Logger
}

func NewDashboardService(
	quotationRepo *repository.QuotationRepository,
	savingRepo *repository.SavingRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		quotationRepo: quotationRepo,
		savingRepo:    savingRepo,
		logger:        logger,
	}
}

func (s *DashboardService) GetStats(ctx context.Context) (*domain.DashboardStatsDTO, error) {
	counts, err := s.quotationRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count quotations: %w", err)
	}

	totalEconomy, err := s.savingRepo.TotalEconomy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum economy: %w", err)
	}

	avgEconomyPct, avgRounds, err := s.savingRepo.AverageStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to average savings: %w", err)
	}

	stats := &domain.DashboardStatsDTO{
		PendingCount:       counts[quote.StatusPending],
		InAnalysisCount:    counts[quote.StatusInAnalysis],
		AwaitingApproval:   counts[quote.StatusAwaitingApproval],
		ApprovedCount:      counts[quote.StatusApproved],
		RejectedCount:      counts[quote.StatusRejected],
		RenegotiationCount: counts[quote.StatusRenegotiation],
		TotalEconomy:       totalEconomy,
		AverageEconomyPct:  avgEconomyPct,
		AverageRounds:      avgRounds,
	}
	for _, count := range counts {
		stats.TotalQuotations += count
	}
	return stats, nil
}
