package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/comprasys/cotacao-api/internal/domain"
	"github.com/comprasys/cotacao-api/internal/quote"
)

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// DB exposes the underlying handle so services can run multi-repository
// transactions.
func (r *QuotationRepository) DB() *gorm.DB {
	return r.db
}

func (r *QuotationRepository) Create(ctx context.Context, quotation *domain.Quotation) error {
	return r.db.WithContext(ctx).Create(quotation).Error
}

func (r *QuotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var quotation domain.Quotation
	query := r.db.WithContext(ctx).
		Preload("Suppliers", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Preload("Suppliers.Items").
		Preload("ApprovalRecord").
		Preload("RejectionRecord").
		Preload("RenegotiationRecords", func(db *gorm.DB) *gorm.DB {
			return db.Order("requested_at DESC")
		}).
		Preload("Attachments").
		Where("id = ?", id)
	query = ApplyBuyerFilter(ctx, query)
	err := query.First(&quotation).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *QuotationRepository) Update(ctx context.Context, quotation *domain.Quotation) error {
	return r.db.WithContext(ctx).Save(quotation).Error
}

// UpdateWithVersion persists header changes only if the stored lock_version
// still matches expectedLock. On success the counter is bumped by one; a
// stale caller gets ErrVersionConflict and must reload.
func (r *QuotationRepository) UpdateWithVersion(ctx context.Context, quotation *domain.Quotation, expectedLock int) error {
	quotation.LockVersion = expectedLock + 1
	result := r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("id = ? AND lock_version = ?", quotation.ID, expectedLock).
		Updates(map[string]interface{}{
			"status":           quotation.Status,
			"purchase_type":    quotation.PurchaseType,
			"emergency_reason": quotation.EmergencyReason,
			"delivery_place":   quotation.DeliveryPlace,
			"deadline_at":      quotation.DeadlineAt,
			"current_version":  quotation.CurrentVersion,
			"lock_version":     quotation.LockVersion,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// UpdateWithVersionTx is UpdateWithVersion bound to an open transaction, so
// lifecycle transitions can commit the status change atomically with their
// side effects.
func (r *QuotationRepository) UpdateWithVersionTx(ctx context.Context, tx *gorm.DB, quotation *domain.Quotation, expectedLock int) error {
	quotation.LockVersion = expectedLock + 1
	result := tx.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("id = ? AND lock_version = ?", quotation.ID, expectedLock).
		Updates(map[string]interface{}{
			"status":           quotation.Status,
			"purchase_type":    quotation.PurchaseType,
			"emergency_reason": quotation.EmergencyReason,
			"delivery_place":   quotation.DeliveryPlace,
			"deadline_at":      quotation.DeadlineAt,
			"current_version":  quotation.CurrentVersion,
			"lock_version":     quotation.LockVersion,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *QuotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Quotation{}, "id = ?", id).Error
}

func (r *QuotationRepository) List(ctx context.Context, q domain.ListQuotationsQuery) ([]domain.Quotation, int64, error) {
	var quotations []domain.Quotation
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Quotation{}).
		Preload("Suppliers", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Preload("Suppliers.Items")

	query = ApplyBuyerFilter(ctx, query)

	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.PurchaseType != "" {
		query = query.Where("purchase_type = ?", q.PurchaseType)
	}
	if q.BuyerID != "" {
		query = query.Where("buyer_id = ?", q.BuyerID)
	}
	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where(
			"LOWER(delivery_place) LIKE ? OR LOWER(buyer_name) LIKE ?",
			pattern, pattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&quotations).Error

	return quotations, total, err
}

// CountByStatus returns quotation counts keyed by status, buyer scoped.
func (r *QuotationRepository) CountByStatus(ctx context.Context) (map[quote.Status]int, error) {
	var rows []struct {
		Status quote.Status
		Count  int
	}
	query := r.db.WithContext(ctx).Model(&domain.Quotation{}).
		Select("status, COUNT(*) as count").
		Group("status")
	query = ApplyBuyerFilter(ctx, query)
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[quote.Status]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// ListExpired returns quotations still open past their response deadline.
func (r *QuotationRepository) ListExpired(ctx context.Context, limit int) ([]domain.Quotation, error) {
	var quotations []domain.Quotation
	err := r.db.WithContext(ctx).
		Where("deadline_at IS NOT NULL AND deadline_at < CURRENT_TIMESTAMP").
		Where("status IN ?", []quote.Status{quote.StatusPending, quote.StatusInAnalysis}).
		Order("deadline_at ASC").
		Limit(limit).
		Find(&quotations).Error
	return quotations, err
}

// SuppliersForVersion loads the supplier rows (with items) of one version.
func (r *QuotationRepository) SuppliersForVersion(ctx context.Context, quotationID uuid.UUID, version int) ([]domain.QuotationSupplier, error) {
	var suppliers []domain.QuotationSupplier
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("quotation_id = ? AND version = ?", quotationID, version).
		Order("name ASC").
		Find(&suppliers).Error
	return suppliers, err
}

// ReplaceSuppliers inserts supplier rows for a new version inside tx. Old
// version rows are kept for the audit trail.
func (r *QuotationRepository) ReplaceSuppliers(ctx context.Context, tx *gorm.DB, suppliers []domain.QuotationSupplier) error {
	if len(suppliers) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&suppliers).Error
}

// FlagItemsForRenegotiation marks the matching item rows of the current
// version so the next round carries the flag forward.
func (r *QuotationRepository) FlagItemsForRenegotiation(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Model(&domain.QuotationItem{}).
		Where("id IN ?", itemIDs).
		Update("flagged_for_renegotiation", true).Error
}
