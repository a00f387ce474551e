package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/comprasys/cotacao-api/internal/auth"
	"github.com/comprasys/cotacao-api/internal/domain"
	"github.com/comprasys/cotacao-api/internal/mapper"
	"github.com/comprasys/cotacao-api/internal/quote"
	"github.com/comprasys/cotacao-api/internal/repository"
)

// PriceBaselineSource supplies historical price baselines for new quotation
// items. The ERP mirror client implements it; nil disables enrichment.
type PriceBaselineSource interface {
	LastApprovedPrice(ctx context.Context, productID string) (*float64, error)
}

// QuotationService handles quotation CRUD and version history.
type QuotationService struct {
	db            *gorm.DB
	quotationRepo *repository.QuotationRepository
	versionRepo   *repository.VersionRepository
	eventRepo     *repository.EventRepository
	baselines     PriceBaselineSource
	logger        *zap.Logger
}

func NewQuotationService(
	db *gorm.DB,
	quotationRepo *repository.QuotationRepository,
	versionRepo *repository.VersionRepository,
	eventRepo *repository.EventRepository,
	baselines PriceBaselineSource,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		db:            db,
		quotationRepo: quotationRepo,
		versionRepo:   versionRepo,
		eventRepo:     eventRepo,
		baselines:     baselines,
		logger:        logger,
	}
}

// Create registers a new quotation from the buyer's raw supplier rows.
// Numeric fields are normalized here; unparsable values coerce to zero and
// are reported back, never rejected.
func (s *QuotationService) Create(ctx context.Context, req *domain.CreateQuotationRequest) (*domain.QuotationDTO, []domain.ParseIssueDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, nil, ErrUnauthorized
	}

	if !req.PurchaseType.IsValid() {
		return nil, nil, fmt.Errorf("%w: invalid purchase type %q", ErrInvalidInput, req.PurchaseType)
	}
	if req.PurchaseType == domain.PurchaseTypeEmergency && strings.TrimSpace(req.EmergencyReason) == "" {
		return nil, nil, fmt.Errorf("%w: emergency purchases require a reason", ErrInvalidInput)
	}

	quotation := &domain.Quotation{
		Status:          quote.StatusPending,
		PurchaseType:    req.PurchaseType,
		EmergencyReason: req.EmergencyReason,
		DeliveryPlace:   req.DeliveryPlace,
		BuyerID:         userCtx.UserID,
		BuyerName:       userCtx.DisplayName,
		DeadlineAt:      req.DeadlineAt,
		CurrentVersion:  1,
	}

	suppliers, issues := s.buildSupplierRows(ctx, req.Suppliers, 1)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quotation).Error; err != nil {
			return fmt.Errorf("failed to create quotation: %w", err)
		}
		for i := range suppliers {
			suppliers[i].QuotationID = quotation.ID
		}
		if len(suppliers) > 0 {
			if err := tx.Create(&suppliers).Error; err != nil {
				return fmt.Errorf("failed to create supplier rows: %w", err)
			}
		}
		return s.eventRepo.CreateTx(ctx, tx, &domain.QuotationEvent{
			QuotationID: quotation.ID,
			Version:     1,
			Kind:        domain.EventKindCreated,
			ToStatus:    quote.StatusPending,
			Detail:      fmt.Sprintf("quotation created with %d supplier(s)", len(suppliers)),
			ActorID:     userCtx.UserID,
			ActorName:   userCtx.DisplayName,
		})
	})
	if err != nil {
		return nil, nil, err
	}

	quotation, err = s.quotationRepo.GetByID(ctx, quotation.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reload quotation: %w", err)
	}

	s.logger.Info("quotation created",
		zap.String("quotationID", quotation.ID.String()),
		zap.String("buyerID", quotation.BuyerID),
		zap.Int("parseIssues", len(issues)),
	)

	dto := mapper.ToQuotationDTO(quotation)
	return &dto, issues, nil
}

// buildSupplierRows normalizes the raw request rows into persistable
// supplier and item records for the given version, enriching items with
// price baselines when an ERP mirror is wired.
func (s *QuotationService) buildSupplierRows(ctx context.Context, reqs []domain.CreateQuotationSupplierReq, version int) ([]domain.QuotationSupplier, []domain.ParseIssueDTO) {
	var issues []domain.ParseIssueDTO
	suppliers := make([]domain.QuotationSupplier, 0, len(reqs))

	for _, sr := range reqs {
		var raw []quote.RawOffer
		for _, item := range sr.Items {
			raw = append(raw, quote.RawOffer{
				ProductID:    item.ProductID,
				ProductName:  item.ProductName,
				SupplierID:   sr.SupplierID,
				SupplierName: sr.Name,
				UnitPrice:    item.UnitPrice,
				Quantity:     item.Quantity,
				Unit:         item.Unit,
				DeliveryTerm: item.DeliveryTerm,
				PaymentTerm:  sr.PaymentTerm,
				DifalPercent: item.DifalPercent,
				IPI:          item.IPI,
				FreightTotal: sr.FreightTotal,
			})
		}
		offers, parseErrs := quote.NormalizeOffers(raw, nil)
		for _, pe := range parseErrs {
			issues = append(issues, domain.ParseIssueDTO{
				Field:        pe.Field,
				Value:        pe.Value,
				ProductName:  pe.Ref.ProductName,
				SupplierName: pe.Ref.SupplierName,
			})
		}

		supplier := domain.QuotationSupplier{
			Version:     version,
			SupplierID:  sr.SupplierID,
			Name:        sr.Name,
			FreightType: sr.FreightType,
			PaymentTerm: sr.PaymentTerm,
		}
		if len(offers) > 0 {
			supplier.FreightTotal = offers[0].FreightTotal
		}

		for _, o := range offers {
			item := domain.QuotationItem{
				ProductID:        o.ProductID,
				ProductName:      o.ProductName,
				Quantity:         o.Quantity,
				Unit:             o.Unit,
				UnitPrice:        o.UnitPrice,
				DifalPercent:     o.DifalPercent,
				IPI:              o.IPI,
				DeliveryTerm:     o.DeliveryTerm,
				FirstQuotedPrice: o.FirstQuotedPrice,
			}
			if item.FirstQuotedPrice == nil {
				first := o.UnitPrice
				item.FirstQuotedPrice = &first
			}
			if s.baselines != nil && o.ProductID != "" {
				if last, err := s.baselines.LastApprovedPrice(ctx, o.ProductID); err == nil && last != nil {
					item.LastApprovedPrice = last
				}
			}
			supplier.Items = append(supplier.Items, item)
		}
		suppliers = append(suppliers, supplier)
	}

	return suppliers, issues
}

func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

func (s *QuotationService) List(ctx context.Context, q domain.ListQuotationsQuery) (*domain.PaginatedResponse, error) {
	quotations, total, err := s.quotationRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}

	dtos := make([]domain.QuotationDTO, len(quotations))
	for i, quotation := range quotations {
		dtos[i] = mapper.ToQuotationDTO(&quotation)
	}

	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	page := q.Page
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

// Update edits header fields while the quotation is still pending. The
// caller's lockVersion must match or ErrStaleQuotation comes back.
func (s *QuotationService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuotationRequest) (*domain.QuotationDTO, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	if quotation.Status != quote.StatusPending {
		return nil, ErrQuotationNotEditable
	}

	if req.PurchaseType != nil {
		if !req.PurchaseType.IsValid() {
			return nil, fmt.Errorf("%w: invalid purchase type %q", ErrInvalidInput, *req.PurchaseType)
		}
		quotation.PurchaseType = *req.PurchaseType
	}
	if req.EmergencyReason != nil {
		quotation.EmergencyReason = *req.EmergencyReason
	}
	if req.DeliveryPlace != nil {
		quotation.DeliveryPlace = *req.DeliveryPlace
	}
	if req.DeadlineAt != nil {
		quotation.DeadlineAt = req.DeadlineAt
	}
	if quotation.PurchaseType == domain.PurchaseTypeEmergency && strings.TrimSpace(quotation.EmergencyReason) == "" {
		return nil, fmt.Errorf("%w: emergency purchases require a reason", ErrInvalidInput)
	}

	if err := s.quotationRepo.UpdateWithVersion(ctx, quotation, req.LockVersion); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrStaleQuotation
		}
		return nil, fmt.Errorf("failed to update quotation: %w", err)
	}

	s.logEvent(ctx, quotation, domain.EventKindUpdated, quotation.Status, quotation.Status, "quotation header updated")

	quotation, err = s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload quotation: %w", err)
	}

	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// Delete removes a quotation. Only pending quotations can be deleted; after
// submission the record is part of the audit trail.
func (s *QuotationService) Delete(ctx context.Context, id uuid.UUID) error {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuotationNotFound
		}
		return fmt.Errorf("failed to get quotation: %w", err)
	}

	if quotation.Status != quote.StatusPending {
		return ErrQuotationNotEditable
	}

	if err := s.quotationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete quotation: %w", err)
	}

	s.logger.Info("quotation deleted",
		zap.String("quotationID", id.String()),
		zap.String("buyerID", quotation.BuyerID),
	)
	return nil
}

// ListVersions returns the snapshot history of a quotation, newest first.
func (s *QuotationService) ListVersions(ctx context.Context, id uuid.UUID) ([]domain.QuotationVersionDTO, error) {
	if _, err := s.quotationRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	versions, err := s.versionRepo.ListByQuotation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}

	dtos := make([]domain.QuotationVersionDTO, len(versions))
	for i, v := range versions {
		dtos[i] = mapper.ToQuotationVersionDTO(&v)
	}
	return dtos, nil
}

// logEvent records an audit event outside a transaction. Failures are
// logged, not propagated: the primary operation already succeeded.
func (s *QuotationService) logEvent(ctx context.Context, q *domain.Quotation, kind domain.QuotationEventKind, from, to quote.Status, detail string) {
	event := &domain.QuotationEvent{
		QuotationID: q.ID,
		Version:     q.CurrentVersion,
		Kind:        kind,
		FromStatus:  from,
		ToStatus:    to,
		Detail:      detail,
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		event.ActorID = userCtx.UserID
		event.ActorName = userCtx.DisplayName
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.logger.Warn("failed to record audit event",
			zap.String("quotationID", q.ID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}

// snapshotJSON serializes the current version's rows for the immutable
// version history.
func snapshotJSON(q *domain.Quotation, suppliers []domain.QuotationSupplier) (string, error) {
	payload := struct {
		Status    quote.Status                  `json:"status"`
		Version   int                           `json:"version"`
		Suppliers []domain.QuotationSupplierDTO `json:"suppliers"`
	}{Status: q.Status, Version: q.CurrentVersion}
	for i := range suppliers {
		payload.Suppliers = append(payload.Suppliers, mapper.ToQuotationSupplierDTO(&suppliers[i]))
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	return string(data), nil
}
