package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/comprasys/cotacao-api/internal/auth"
	"github.com/comprasys/cotacao-api/internal/domain"
	"github.com/comprasys/cotacao-api/internal/mapper"
	"github.com/comprasys/cotacao-api/internal/quote"
	"github.com/comprasys/cotacao-api/internal/repository"
)

// QuotationLifecycleService drives quotation status transitions. Every
// operation follows the same shape: load, rebuild the in-memory snapshot,
// run the pure transition, then persist the status change and its side
// effects in one transaction guarded by the optimistic lock.
type QuotationLifecycleService struct {
	db            *gorm.DB
	quotationRepo *repository.QuotationRepository
	versionRepo   *repository.VersionRepository
	savingRepo    *repository.SavingRepository
	eventRepo     *repository.EventRepository
	comparisons   *ComparisonService
	quotations    *QuotationService
	logger        *zap.Logger
}

func NewQuotationLifecycleService(
	db *gorm.DB,
	quotationRepo *repository.QuotationRepository,
	versionRepo *repository.VersionRepository,
	savingRepo *repository.SavingRepository,
	eventRepo *repository.EventRepository,
	comparisons *ComparisonService,
	quotations *QuotationService,
	logger *zap.Logger,
) *QuotationLifecycleService {
	return &QuotationLifecycleService{
		db:            db,
		quotationRepo: quotationRepo,
		versionRepo:   versionRepo,
		savingRepo:    savingRepo,
		eventRepo:     eventRepo,
		comparisons:   comparisons,
		quotations:    quotations,
		logger:        logger,
	}
}

// Submit sends a pending quotation to supervisor review.
func (s *QuotationLifecycleService) Submit(ctx context.Context, id uuid.UUID, req *domain.SubmitQuotationRequest) (*domain.QuotationDTO, error) {
	return s.transition(ctx, id, quote.EventSubmit, quote.Payload{}, req.LockVersion, domain.EventKindSubmitted, "submitted for review", nil)
}

// Forward moves a reviewed quotation to the approver's queue.
func (s *QuotationLifecycleService) Forward(ctx context.Context, id uuid.UUID, req *domain.ForwardQuotationRequest) (*domain.QuotationDTO, error) {
	return s.transition(ctx, id, quote.EventForward, quote.Payload{}, req.LockVersion, domain.EventKindForwarded, "forwarded for approval", nil)
}

// Approve closes the quotation. The approval type decides which items end
// up in the approval record; best-* types resolve against the comparison.
func (s *QuotationLifecycleService) Approve(ctx context.Context, id uuid.UUID, req *domain.ApproveQuotationRequest) (*domain.QuotationDTO, error) {
	if !req.ApprovalType.IsValid() {
		return nil, fmt.Errorf("%w: invalid approval type %q", ErrInvalidInput, req.ApprovalType)
	}

	payload := quote.Payload{
		ApprovalType: req.ApprovalType,
		Reason:       req.Reason,
		Selection: quote.SelectionState{
			Manual:       itemRefsFromDTO(req.ManualItems),
			PerCriterion: perCriterionFromDTO(req.PerCriterion),
		},
	}
	return s.transition(ctx, id, quote.EventApprove, payload, req.LockVersion, domain.EventKindApproved, "quotation approved: "+req.Reason, req)
}

// Reject closes the quotation without a purchase.
func (s *QuotationLifecycleService) Reject(ctx context.Context, id uuid.UUID, req *domain.RejectQuotationRequest) (*domain.QuotationDTO, error) {
	payload := quote.Payload{Reason: req.Reason}
	return s.transition(ctx, id, quote.EventReject, payload, req.LockVersion, domain.EventKindRejected, "quotation rejected: "+req.Reason, nil)
}

// RequestRenegotiation flags items for a new supplier round. The next
// version carries the full item set; the selection only marks the lines
// that motivated the round.
func (s *QuotationLifecycleService) RequestRenegotiation(ctx context.Context, id uuid.UUID, req *domain.RenegotiationRequest) (*domain.QuotationDTO, error) {
	payload := quote.Payload{
		SelectedItems: itemRefsFromDTO(req.SelectedItems),
		Justification: req.Justification,
		Observations:  req.Observations,
	}
	return s.transition(ctx, id, quote.EventRequestRenegotiation, payload, req.LockVersion, domain.EventKindRenegotiation, "renegotiation requested: "+req.Justification, req)
}

// Resubmit replaces the offer rows after a renegotiation round and re-enters
// the pipeline as a new version.
func (s *QuotationLifecycleService) Resubmit(ctx context.Context, id uuid.UUID, req *domain.ResubmitQuotationRequest) (*domain.QuotationDTO, []domain.ParseIssueDTO, error) {
	updated, parseErrs := quote.NormalizeOffers(rawOffersFromRequest(req.Suppliers), nil)
	payload := quote.Payload{UpdatedItems: updated}

	dto, err := s.transition(ctx, id, quote.EventResubmit, payload, req.LockVersion, domain.EventKindResubmitted, "resubmitted after renegotiation", req)
	if err != nil {
		return nil, nil, err
	}

	// Parse issues are reported the same way Create reports them; the rows
	// themselves were persisted with coerced values.
	var issues []domain.ParseIssueDTO
	for _, pe := range parseErrs {
		issues = append(issues, domain.ParseIssueDTO{
			Field:        pe.Field,
			Value:        pe.Value,
			ProductName:  pe.Ref.ProductName,
			SupplierName: pe.Ref.SupplierName,
		})
	}
	return dto, issues, nil
}

// transition is the shared load → guard → persist pipeline. The request
// argument carries event-specific data the side effects need (approval
// selections, renegotiation text, resubmitted rows).
func (s *QuotationLifecycleService) transition(
	ctx context.Context,
	id uuid.UUID,
	event quote.Event,
	payload quote.Payload,
	lockVersion int,
	eventKind domain.QuotationEventKind,
	eventDetail string,
	request interface{},
) (*domain.QuotationDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	payload.ActorID = userCtx.UserID
	payload.ActorName = userCtx.DisplayName

	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	snap, err := s.comparisons.Snapshot(ctx, quotation)
	if err != nil {
		return nil, err
	}

	result, err := quote.Transition(snap, event, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	fromStatus := quotation.Status
	fromVersion := quotation.CurrentVersion
	quotation.Status = result.NextState

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.applySideEffects(ctx, tx, quotation, snap, result, payload, request); err != nil {
			return err
		}
		if err := s.quotationRepo.UpdateWithVersionTx(ctx, tx, quotation, lockVersion); err != nil {
			return err
		}
		return s.eventRepo.CreateTx(ctx, tx, &domain.QuotationEvent{
			QuotationID: quotation.ID,
			Version:     fromVersion,
			Kind:        eventKind,
			FromStatus:  fromStatus,
			ToStatus:    result.NextState,
			Detail:      eventDetail,
			Payload:     marshalEventPayload(payload, result),
			ActorID:     userCtx.UserID,
			ActorName:   userCtx.DisplayName,
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrStaleQuotation
		}
		return nil, err
	}

	s.logger.Info("quotation transitioned",
		zap.String("quotationID", quotation.ID.String()),
		zap.String("event", string(event)),
		zap.String("fromStatus", string(fromStatus)),
		zap.String("toStatus", string(result.NextState)),
		zap.Int("version", quotation.CurrentVersion),
		zap.String("actorID", userCtx.UserID),
	)

	quotation, err = s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload quotation: %w", err)
	}
	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// applySideEffects materializes the actions the pure transition asked for.
// All writes happen on tx; the surrounding CAS commits or rolls them back
// together with the status change.
func (s *QuotationLifecycleService) applySideEffects(
	ctx context.Context,
	tx *gorm.DB,
	quotation *domain.Quotation,
	snap quote.Snapshot,
	result quote.TransitionResult,
	payload quote.Payload,
	request interface{},
) error {
	userCtx, _ := auth.FromContext(ctx)
	closingVersion := quotation.CurrentVersion

	suppliers, err := s.quotationRepo.SuppliersForVersion(ctx, quotation.ID, closingVersion)
	if err != nil {
		return fmt.Errorf("failed to load supplier rows: %w", err)
	}

	for _, effect := range result.SideEffects {
		switch effect {
		case quote.SideEffectSnapshotVersion:
			snapshot, err := snapshotJSON(quotation, suppliers)
			if err != nil {
				return err
			}
			if err := s.versionRepo.CreateTx(ctx, tx, &domain.QuotationVersion{
				QuotationID:   quotation.ID,
				Version:       closingVersion,
				Status:        result.NextState,
				Snapshot:      snapshot,
				CreatedByID:   userCtx.UserID,
				CreatedByName: userCtx.DisplayName,
			}); err != nil {
				return fmt.Errorf("failed to snapshot version: %w", err)
			}

		case quote.SideEffectCreateApprovalRecord:
			req := request.(*domain.ApproveQuotationRequest)
			items, err := json.Marshal(itemRefsToDTO(result.ApprovedItems))
			if err != nil {
				return fmt.Errorf("failed to serialize approved items: %w", err)
			}
			record := &domain.ApprovalRecord{
				QuotationID:    quotation.ID,
				Version:        closingVersion,
				ApprovalType:   req.ApprovalType,
				ApprovedItems:  string(items),
				Reason:         req.Reason,
				ApprovedByID:   userCtx.UserID,
				ApprovedByName: userCtx.DisplayName,
				ApprovedAt:     time.Now(),
			}
			if err := tx.WithContext(ctx).Create(record).Error; err != nil {
				return fmt.Errorf("failed to create approval record: %w", err)
			}
			if err := s.createSaving(ctx, tx, quotation, snap, result); err != nil {
				return err
			}

		case quote.SideEffectCreateRejectionRecord:
			record := &domain.RejectionRecord{
				QuotationID:    quotation.ID,
				Version:        closingVersion,
				Reason:         payload.Reason,
				RejectedByID:   userCtx.UserID,
				RejectedByName: userCtx.DisplayName,
				RejectedAt:     time.Now(),
			}
			if err := tx.WithContext(ctx).Create(record).Error; err != nil {
				return fmt.Errorf("failed to create rejection record: %w", err)
			}

		case quote.SideEffectCreateRenegotiationRecord:
			req := request.(*domain.RenegotiationRequest)
			items, err := json.Marshal(itemRefsToDTO(result.SelectedItems))
			if err != nil {
				return fmt.Errorf("failed to serialize selected items: %w", err)
			}
			record := &domain.RenegotiationRecord{
				QuotationID:     quotation.ID,
				Version:         closingVersion,
				SelectedItems:   string(items),
				Justification:   req.Justification,
				Observations:    req.Observations,
				RequestedByID:   userCtx.UserID,
				RequestedByName: userCtx.DisplayName,
				RequestedAt:     time.Now(),
			}
			if err := tx.WithContext(ctx).Create(record).Error; err != nil {
				return fmt.Errorf("failed to create renegotiation record: %w", err)
			}
			if err := s.flagSelectedItems(ctx, tx, suppliers, result.SelectedItems); err != nil {
				return err
			}

		case quote.SideEffectNewVersion:
			snapshot, err := snapshotJSON(quotation, suppliers)
			if err != nil {
				return err
			}
			if err := s.versionRepo.CreateTx(ctx, tx, &domain.QuotationVersion{
				QuotationID:   quotation.ID,
				Version:       closingVersion,
				Status:        result.NextState,
				Snapshot:      snapshot,
				CreatedByID:   userCtx.UserID,
				CreatedByName: userCtx.DisplayName,
			}); err != nil {
				return fmt.Errorf("failed to snapshot version: %w", err)
			}
			quotation.CurrentVersion = closingVersion + 1

			newRows, err := s.nextVersionSuppliers(ctx, quotation, suppliers, result, request)
			if err != nil {
				return err
			}
			if err := s.quotationRepo.ReplaceSuppliers(ctx, tx, newRows); err != nil {
				return fmt.Errorf("failed to create new version rows: %w", err)
			}

		case quote.SideEffectCarryRenegotiationFlags:
			// Handled while building the next version's rows.
		}
	}
	return nil
}

// nextVersionSuppliers builds the supplier rows for the version a transition
// opens. A renegotiation copies the closing version's rows verbatim so the
// buyer edits the full item set; a resubmit takes the rows from the request,
// carrying the renegotiation flags of matching lines forward as markers.
func (s *QuotationLifecycleService) nextVersionSuppliers(
	ctx context.Context,
	quotation *domain.Quotation,
	closing []domain.QuotationSupplier,
	result quote.TransitionResult,
	request interface{},
) ([]domain.QuotationSupplier, error) {
	if req, ok := request.(*domain.ResubmitQuotationRequest); ok {
		rows, _ := s.quotations.buildSupplierRows(ctx, req.Suppliers, quotation.CurrentVersion)
		for i := range rows {
			rows[i].QuotationID = quotation.ID
			carryRenegotiationFlags(closing, rows[i].Items)
		}
		return rows, nil
	}

	// Renegotiation: copy every row, flag the selection.
	flagged := make(map[string]bool)
	for _, ref := range result.SelectedItems {
		flagged[ref.String()] = true
	}

	rows := make([]domain.QuotationSupplier, 0, len(closing))
	for _, src := range closing {
		row := domain.QuotationSupplier{
			QuotationID: quotation.ID,
			Version:     quotation.CurrentVersion,
			SupplierID:  src.SupplierID,
			Name:        src.Name,
			FreightType: src.FreightType,
			FreightTotal: src.FreightTotal,
			PaymentTerm: src.PaymentTerm,
		}
		for _, item := range src.Items {
			copied := item
			copied.ID = uuid.Nil
			copied.SupplierRowID = uuid.Nil
			ref := quote.ItemRef{ProductID: item.ProductID, ProductName: item.ProductName, SupplierName: src.Name}
			if flagged[ref.String()] {
				copied.FlaggedForRenegotiation = true
			}
			row.Items = append(row.Items, copied)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// carryRenegotiationFlags marks resubmitted items whose product x supplier
// line was flagged in the closing version.
func carryRenegotiationFlags(closing []domain.QuotationSupplier, items []domain.QuotationItem) {
	for i := range items {
		for _, src := range closing {
			for _, prev := range src.Items {
				if !prev.FlaggedForRenegotiation {
					continue
				}
				sameProduct := (prev.ProductID != "" && prev.ProductID == items[i].ProductID) ||
					quote.NormalizeName(prev.ProductName) == quote.NormalizeName(items[i].ProductName)
				if sameProduct {
					items[i].FlaggedForRenegotiation = true
				}
			}
		}
	}
}

// flagSelectedItems sets the renegotiation marker on the closing version's
// rows so history shows which lines motivated the round.
func (s *QuotationLifecycleService) flagSelectedItems(ctx context.Context, tx *gorm.DB, suppliers []domain.QuotationSupplier, selected []quote.ItemRef) error {
	var ids []uuid.UUID
	for _, src := range suppliers {
		for _, item := range src.Items {
			offer := quote.Offer{ProductID: item.ProductID, ProductName: item.ProductName, SupplierName: src.Name}
			for _, ref := range selected {
				if ref.Matches(offer) {
					ids = append(ids, item.ID)
					break
				}
			}
		}
	}
	return s.quotationRepo.FlagItemsForRenegotiation(ctx, tx, ids)
}

// createSaving captures the economy outcome at approval time, comparing the
// approved prices against the very first quoted round.
func (s *QuotationLifecycleService) createSaving(ctx context.Context, tx *gorm.DB, quotation *domain.Quotation, snap quote.Snapshot, result quote.TransitionResult) error {
	saving := &domain.Saving{
		QuotationID:   quotation.ID,
		BuyerID:       quotation.BuyerID,
		PurchaseType:  quotation.PurchaseType,
		DeliveryPlace: quotation.DeliveryPlace,
		Rounds:        quotation.CurrentVersion,
		Status:        domain.SavingStatusConcluded,
	}

	coveredGroups := make(map[quote.GroupKey]bool)
	for _, ref := range result.ApprovedItems {
		for _, offer := range snap.Items {
			if !ref.Matches(offer) {
				continue
			}
			coveredGroups[quote.KeyFor(offer)] = true

			initial := offer.UnitPrice
			if offer.FirstQuotedPrice != nil {
				initial = *offer.FirstQuotedPrice
			}
			economy := (initial - offer.UnitPrice) * offer.Quantity
			pct := 0.0
			if initial > 0 {
				pct = economy / (initial * offer.Quantity) * 100
			}

			saving.Items = append(saving.Items, domain.SavingItem{
				Description:      offer.ProductName,
				SupplierName:     offer.SupplierName,
				Quantity:         offer.Quantity,
				InitialUnitPrice: initial,
				FinalUnitPrice:   offer.UnitPrice,
				Economy:          economy,
				EconomyPercent:   pct,
				DeliveryTerm:     offer.DeliveryTerm,
				PaymentTerm:      offer.PaymentTerm,
				Freight:          offer.FreightTotal,
				DifalPercent:     offer.DifalPercent,
			})
			saving.TotalInitialValue += initial * offer.Quantity
			saving.TotalFinalValue += offer.UnitPrice * offer.Quantity
			break
		}
	}

	saving.Economy = saving.TotalInitialValue - saving.TotalFinalValue
	if saving.TotalInitialValue > 0 {
		saving.EconomyPercent = saving.Economy / saving.TotalInitialValue * 100
	}
	// A manual selection that skips whole product groups is a partial
	// purchase; best-* approvals always cover every group.
	if snap.Criteria != nil && len(coveredGroups) < len(snap.Criteria.Groups) {
		saving.Status = domain.SavingStatusPartial
	}

	if err := s.savingRepo.CreateTx(ctx, tx, saving); err != nil {
		return fmt.Errorf("failed to create saving record: %w", err)
	}
	return nil
}

func perCriterionFromDTO(in map[string][]domain.ItemRefDTO) map[quote.ApprovalType][]quote.ItemRef {
	if len(in) == 0 {
		return nil
	}
	out := make(map[quote.ApprovalType][]quote.ItemRef, len(in))
	for k, refs := range in {
		out[quote.ApprovalType(k)] = itemRefsFromDTO(refs)
	}
	return out
}

func marshalEventPayload(payload quote.Payload, result quote.TransitionResult) string {
	data, err := json.Marshal(struct {
		ApprovalType  quote.ApprovalType `json:"approvalType,omitempty"`
		Reason        string             `json:"reason,omitempty"`
		Justification string             `json:"justification,omitempty"`
		ApprovedItems []quote.ItemRef    `json:"approvedItems,omitempty"`
		SelectedItems []quote.ItemRef    `json:"selectedItems,omitempty"`
	}{
		ApprovalType:  payload.ApprovalType,
		Reason:        payload.Reason,
		Justification: payload.Justification,
		ApprovedItems: result.ApprovedItems,
		SelectedItems: result.SelectedItems,
	})
	if err != nil {
		return "{}"
	}
	return string(data)
}
