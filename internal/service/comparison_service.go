package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/comprasys/cotacao-api/internal/domain"
	"github.com/comprasys/cotacao-api/internal/quote"
	"github.com/comprasys/cotacao-api/internal/repository"
)

// ComparisonService derives the comparative view of a quotation version:
// landed prices, per-product criteria winners and the savings report.
type ComparisonService struct {
	quotationRepo *repository.QuotationRepository
	logger        *zap.Logger
}

func NewComparisonService(quotationRepo *repository.QuotationRepository, logger *zap.Logger) *ComparisonService {
	return &ComparisonService{quotationRepo: quotationRepo, logger: logger}
}

// BuildForQuotation computes the comparison over the quotation's current
// version. version <= 0 means current; historical versions are served from
// their persisted supplier rows.
func (s *ComparisonService) BuildForQuotation(ctx context.Context, quotationID uuid.UUID, version int) (*domain.ComparisonDTO, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, quotationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	if version <= 0 {
		version = quotation.CurrentVersion
	}
	if version > quotation.CurrentVersion {
		return nil, fmt.Errorf("%w: version %d does not exist", ErrInvalidInput, version)
	}

	suppliers, err := s.quotationRepo.SuppliersForVersion(ctx, quotationID, version)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier rows: %w", err)
	}

	offers := quote.ComputeEffectivePrices(offersFromSuppliers(suppliers))
	cmp := quote.BuildCriteria(offers)

	for _, key := range cmp.NameKeyed {
		s.logger.Warn("product group keyed by name only, distinct products may have merged",
			zap.String("quotationID", quotationID.String()),
			zap.Int("version", version),
			zap.String("productName", key.Value),
		)
	}

	savings := quote.ComputeSavings(cmp)

	dto := &domain.ComparisonDTO{
		QuotationID: quotationID,
		Version:     version,
		Groups:      buildGroupDTOs(cmp),
		Savings:     buildSavingsDTO(cmp, savings),
	}
	return dto, nil
}

// Snapshot rebuilds the pure-domain view a lifecycle transition runs
// against. Kept here so the comparison logic has exactly one home.
func (s *ComparisonService) Snapshot(ctx context.Context, quotation *domain.Quotation) (quote.Snapshot, error) {
	suppliers, err := s.quotationRepo.SuppliersForVersion(ctx, quotation.ID, quotation.CurrentVersion)
	if err != nil {
		return quote.Snapshot{}, fmt.Errorf("failed to load supplier rows: %w", err)
	}
	offers := quote.ComputeEffectivePrices(offersFromSuppliers(suppliers))
	return quote.Snapshot{
		Status:   quotation.Status,
		Items:    offers,
		Criteria: quote.BuildCriteria(offers),
	}, nil
}

func buildGroupDTOs(cmp *quote.Comparison) []domain.ComparisonGroupDTO {
	nameKeyed := make(map[quote.GroupKey]bool, len(cmp.NameKeyed))
	for _, key := range cmp.NameKeyed {
		nameKeyed[key] = true
	}

	groups := make([]domain.ComparisonGroupDTO, 0, len(cmp.Groups))
	for _, key := range cmp.Keys() {
		sel := cmp.Groups[key]
		first := sel.Offers[0]

		group := domain.ComparisonGroupDTO{
			ProductID:      first.ProductID,
			ProductName:    first.ProductName,
			NameKeyed:      nameKeyed[key],
			BestPriceValue: sel.BestPriceValue,
		}

		for _, o := range sel.Offers {
			group.Offers = append(group.Offers, domain.ComparisonOfferDTO{
				SupplierName:       o.SupplierName,
				Quantity:           o.Quantity,
				UnitPrice:          o.UnitPrice,
				EffectiveUnitPrice: o.EffectiveUnitPrice,
				DifalPercent:       o.DifalPercent,
				IPI:                o.IPI,
				DeliveryDays:       knownDays(o.DeliveryDays, quote.UnknownDeliveryDays),
				PaymentDays:        knownDays(o.PaymentDays, quote.UnknownPaymentDays),
				DeliveryTerm:       o.DeliveryTerm,
				PaymentTerm:        o.PaymentTerm,
			})
		}

		for _, o := range sel.BestPrice {
			group.BestPrice = append(group.BestPrice, refDTO(quote.RefFor(o)))
		}
		if days := knownDays(sel.BestDeliveryDays, quote.UnknownDeliveryDays); days != nil {
			ref := refDTO(quote.RefFor(sel.BestDelivery))
			group.BestDelivery = &ref
			group.BestDeliveryDays = days
		}
		if days := knownDays(sel.BestPaymentDays, quote.UnknownPaymentDays); days != nil {
			ref := refDTO(quote.RefFor(sel.BestPayment))
			group.BestPayment = &ref
			group.BestPaymentDays = days
		}

		groups = append(groups, group)
	}
	return groups
}

func buildSavingsDTO(cmp *quote.Comparison, report quote.SavingsReport) *domain.SavingsReportDTO {
	dto := &domain.SavingsReportDTO{
		TotalEconomyVsLastApproved:    report.TotalEconomyVsLastApproved,
		TotalEconomyVsLastApprovedPct: report.TotalEconomyVsLastApprovedPct,
		TotalEconomyVsAverage:         report.TotalEconomyVsAverage,
		TotalEconomyVsAveragePct:      report.TotalEconomyVsAveragePct,
		TotalSavingVsFirstQuoted:      report.TotalSavingVsFirstQuoted,
		TotalSavingVsFirstQuotedPct:   report.TotalSavingVsFirstQuotedPct,
	}
	for _, item := range report.Items {
		sel := cmp.Groups[item.Key]
		best := sel.BestPrice[0]
		dto.Items = append(dto.Items, domain.ItemSavingsDTO{
			ProductID:                best.ProductID,
			ProductName:              best.ProductName,
			BestSupplierName:         best.SupplierName,
			Quantity:                 item.Quantity,
			BestUnitPrice:            item.BestUnitPrice,
			EconomyVsLastApproved:    item.EconomyVsLastApproved,
			EconomyVsLastApprovedPct: item.EconomyVsLastApprovedPct,
			EconomyVsAverage:         item.EconomyVsAverage,
			EconomyVsAveragePct:      item.EconomyVsAveragePct,
			SavingVsFirstQuoted:      item.SavingVsFirstQuoted,
			SavingVsFirstQuotedPct:   item.SavingVsFirstQuotedPct,
		})
	}
	return dto
}

func refDTO(ref quote.ItemRef) domain.ItemRefDTO {
	return domain.ItemRefDTO{
		ProductID:    ref.ProductID,
		ProductName:  ref.ProductName,
		SupplierName: ref.SupplierName,
	}
}

// knownDays converts a sentinel-carrying day count into a nullable value.
func knownDays(days, sentinel int) *int {
	if days == sentinel {
		return nil
	}
	return &days
}
