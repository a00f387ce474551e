package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/comprasys/cotacao-api/internal/domain"
)

// VersionRepository handles quotation version snapshots (append-only).
type VersionRepository struct {
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) *VersionRepository {
	return &VersionRepository{db: db}
}

// Create inserts a version snapshot. Snapshots are never updated or deleted.
func (r *VersionRepository) Create(ctx context.Context, version *domain.QuotationVersion) error {
	return r.db.WithContext(ctx).Create(version).Error
}

// CreateTx inserts a version snapshot inside an existing transaction.
func (r *VersionRepository) CreateTx(ctx context.Context, tx *gorm.DB, version *domain.QuotationVersion) error {
	return tx.WithContext(ctx).Create(version).Error
}

func (r *VersionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuotationVersion, error) {
	var version domain.QuotationVersion
	err := r.db.WithContext(ctx).First(&version, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// GetByNumber retrieves one version of a quotation.
func (r *VersionRepository) GetByNumber(ctx context.Context, quotationID uuid.UUID, number int) (*domain.QuotationVersion, error) {
	var version domain.QuotationVersion
	err := r.db.WithContext(ctx).
		First(&version, "quotation_id = ? AND version = ?", quotationID, number).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// ListByQuotation returns all snapshots of a quotation, newest first.
func (r *VersionRepository) ListByQuotation(ctx context.Context, quotationID uuid.UUID) ([]domain.QuotationVersion, error) {
	var versions []domain.QuotationVersion
	err := r.db.WithContext(ctx).
		Where("quotation_id = ?", quotationID).
		Order("version DESC").
		Find(&versions).Error
	return versions, err
}
