package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/comprasys/cotacao-api/internal/domain"
)

// SavingFilter represents filter options for querying savings
type SavingFilter struct {
	BuyerID      string
	PurchaseType *domain.PurchaseType
	Status       *domain.SavingStatus
	StartTime    *time.Time
	EndTime      *time.Time
}

type SavingRepository struct {
	db *gorm.DB
}

func NewSavingRepository(db *gorm.DB) *SavingRepository {
	return &SavingRepository{db: db}
}

func (r *SavingRepository) Create(ctx context.Context, saving *domain.Saving) error {
	return r.db.WithContext(ctx).Create(saving).Error
}

// CreateTx inserts a saving with its items inside an existing transaction.
func (r *SavingRepository) CreateTx(ctx context.Context, tx *gorm.DB, saving *domain.Saving) error {
	return tx.WithContext(ctx).Create(saving).Error
}

func (r *SavingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Saving, error) {
	var saving domain.Saving
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&saving, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &saving, nil
}

// GetByQuotation returns the saving captured for a quotation, if any.
func (r *SavingRepository) GetByQuotation(ctx context.Context, quotationID uuid.UUID) (*domain.Saving, error) {
	var saving domain.Saving
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&saving, "quotation_id = ?", quotationID).Error
	if err != nil {
		return nil, err
	}
	return &saving, nil
}

// List retrieves savings with pagination and optional filters
func (r *SavingRepository) List(ctx context.Context, filter *SavingFilter, page, pageSize int) ([]domain.Saving, int64, error) {
	var savings []domain.Saving
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Saving{}).Preload("Items")
	query = ApplyBuyerFilter(ctx, query)

	if filter != nil {
		if filter.BuyerID != "" {
			query = query.Where("buyer_id = ?", filter.BuyerID)
		}
		if filter.PurchaseType != nil {
			query = query.Where("purchase_type = ?", *filter.PurchaseType)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.StartTime != nil {
			query = query.Where("created_at >= ?", *filter.StartTime)
		}
		if filter.EndTime != nil {
			query = query.Where("created_at <= ?", *filter.EndTime)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&savings).Error

	return savings, total, err
}

// TotalEconomy sums the realized economy across all savings, buyer scoped.
func (r *SavingRepository) TotalEconomy(ctx context.Context) (float64, error) {
	var total float64
	query := r.db.WithContext(ctx).Model(&domain.Saving{})
	query = ApplyBuyerFilter(ctx, query)
	err := query.Select("COALESCE(SUM(economy), 0)").Scan(&total).Error
	return total, err
}

// AverageStats returns the mean economy percentage and negotiation round
// count, buyer scoped.
func (r *SavingRepository) AverageStats(ctx context.Context) (avgEconomyPct, avgRounds float64, err error) {
	var row struct {
		AvgEconomyPct float64
		AvgRounds     float64
	}
	query := r.db.WithContext(ctx).Model(&domain.Saving{}).
		Select("COALESCE(AVG(economy_percent), 0) as avg_economy_pct, COALESCE(AVG(rounds), 0) as avg_rounds")
	query = ApplyBuyerFilter(ctx, query)
	err = query.Scan(&row).Error
	return row.AvgEconomyPct, row.AvgRounds, err
}
