package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/comprasys/cotacao-api/internal/domain"
)

// EventFilter represents filter options for querying the audit trail
type EventFilter struct {
	QuotationID *uuid.UUID
	Kind        *domain.QuotationEventKind
	ActorID     string
	StartTime   *time.Time
	EndTime     *time.Time
}

// EventRepository handles the quotation audit trail (append-only).
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts an audit event (append-only - no updates allowed)
func (r *EventRepository) Create(ctx context.Context, event *domain.QuotationEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// CreateTx inserts an audit event inside an existing transaction so the
// event commits or rolls back together with the transition it records.
func (r *EventRepository) CreateTx(ctx context.Context, tx *gorm.DB, event *domain.QuotationEvent) error {
	return tx.WithContext(ctx).Create(event).Error
}

// ListByQuotation returns the full trail of a quotation, oldest first.
func (r *EventRepository) ListByQuotation(ctx context.Context, quotationID uuid.UUID) ([]domain.QuotationEvent, error) {
	var events []domain.QuotationEvent
	err := r.db.WithContext(ctx).
		Where("quotation_id = ?", quotationID).
		Order("occurred_at ASC").
		Find(&events).Error
	return events, err
}

// List retrieves audit events with pagination and optional filters
func (r *EventRepository) List(ctx context.Context, filter *EventFilter, page, pageSize int) ([]domain.QuotationEvent, int64, error) {
	var events []domain.QuotationEvent
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.QuotationEvent{})

	if filter != nil {
		if filter.QuotationID != nil {
			query = query.Where("quotation_id = ?", *filter.QuotationID)
		}
		if filter.Kind != nil {
			query = query.Where("kind = ?", *filter.Kind)
		}
		if filter.ActorID != "" {
			query = query.Where("actor_id = ?", filter.ActorID)
		}
		if filter.StartTime != nil {
			query = query.Where("occurred_at >= ?", *filter.StartTime)
		}
		if filter.EndTime != nil {
			query = query.Where("occurred_at <= ?", *filter.EndTime)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("occurred_at DESC").Find(&events).Error

	return events, total, err
}
