package mapper_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comprasys/cotacao-api/internal/domain"
	"github.com/comprasys/cotacao-api/internal/mapper"
	"github.com/comprasys/cotacao-api/internal/quote"
)

func TestToQuotationDTO(t *testing.T) {
	deadline := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)

	q := &domain.Quotation{
		BaseModel: domain.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		},
		Status:         quote.StatusInAnalysis,
		PurchaseType:   domain.PurchaseTypeScheduled,
		DeliveryPlace:  "Obra Jardim Paulista",
		BuyerID:        "buyer-3",
		BuyerName:      "Ana Souza",
		DeadlineAt:     &deadline,
		CurrentVersion: 2,
		LockVersion:    5,
		Suppliers: []domain.QuotationSupplier{
			{Version: 1, Name: "Fornecedor Antigo"},
			{Version: 2, Name: "Fornecedor Atual", FreightType: "CIF", FreightTotal: 120.50, PaymentTerm: "28 dias"},
		},
	}

	dto := mapper.ToQuotationDTO(q)

	assert.Equal(t, q.ID, dto.ID)
	assert.Equal(t, quote.StatusInAnalysis, dto.Status)
	assert.Equal(t, domain.PurchaseTypeScheduled, dto.PurchaseType)
	assert.Equal(t, "buyer-3", dto.BuyerID)
	assert.Equal(t, 2, dto.CurrentVersion)
	assert.Equal(t, 5, dto.LockVersion)
	assert.Equal(t, "2026-03-01T10:30:00Z", dto.CreatedAt)
	assert.Equal(t, "2026-03-02T09:00:00Z", dto.UpdatedAt)
	require.NotNil(t, dto.DeadlineAt)
	assert.Equal(t, "2026-03-15T18:00:00Z", *dto.DeadlineAt)

	// suppliers from older versions are excluded
	require.Len(t, dto.Suppliers, 1)
	assert.Equal(t, "Fornecedor Atual", dto.Suppliers[0].Name)
	assert.Equal(t, "CIF", dto.Suppliers[0].FreightType)
	assert.Equal(t, 120.50, dto.Suppliers[0].FreightTotal)
}

func TestToQuotationDTO_NoCurrentSuppliers(t *testing.T) {
	q := &domain.Quotation{
		CurrentVersion: 3,
		Suppliers: []domain.QuotationSupplier{
			{Version: 1, Name: "Superseded"},
		},
	}

	dto := mapper.ToQuotationDTO(q)

	// empty list, not null, so clients can iterate without nil checks
	require.NotNil(t, dto.Suppliers)
	assert.Empty(t, dto.Suppliers)
}

func TestToQuotationDTO_Records(t *testing.T) {
	q := &domain.Quotation{
		CurrentVersion: 1,
		ApprovalRecord: &domain.ApprovalRecord{
			Version:       1,
			ApprovalType:  quote.ApprovalBestPrice,
			ApprovedItems: `[{"productName":"Cimento CP-II","supplierName":"Votoran"}]`,
			Reason:        "melhor preço global",
			ApprovedByID:  "supervisor-1",
			ApprovedAt:    time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC),
		},
		RenegotiationRecords: []domain.RenegotiationRecord{
			{
				Version:       1,
				SelectedItems: `[{"productName":"Areia média","supplierName":"Mineradora Sul"}]`,
				Justification: "preço acima do histórico",
				RequestedByID: "manager-2",
				RequestedAt:   time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC),
			},
		},
	}

	dto := mapper.ToQuotationDTO(q)

	require.NotNil(t, dto.Approval)
	assert.Equal(t, quote.ApprovalBestPrice, dto.Approval.ApprovalType)
	require.Len(t, dto.Approval.ApprovedItems, 1)
	assert.Equal(t, "Cimento CP-II", dto.Approval.ApprovedItems[0].ProductName)
	assert.Equal(t, "Votoran", dto.Approval.ApprovedItems[0].SupplierName)
	assert.Equal(t, "2026-03-05T14:00:00Z", dto.Approval.ApprovedAt)

	require.Len(t, dto.Renegotiations, 1)
	require.Len(t, dto.Renegotiations[0].SelectedItems, 1)
	assert.Equal(t, "Areia média", dto.Renegotiations[0].SelectedItems[0].ProductName)
}

func TestToQuotationItemDTO(t *testing.T) {
	lastApproved := 41.90
	item := &domain.QuotationItem{
		BaseModel:               domain.BaseModel{ID: uuid.New()},
		ProductID:               "PROD-001",
		ProductName:             "Vergalhão CA-50 10mm",
		Quantity:                500,
		Unit:                    "un",
		UnitPrice:               42.75,
		DifalPercent:            4,
		IPI:                     1.5,
		DeliveryTerm:            "10 dias",
		LastApprovedPrice:       &lastApproved,
		FlaggedForRenegotiation: true,
	}

	dto := mapper.ToQuotationItemDTO(item)

	assert.Equal(t, item.ID, dto.ID)
	assert.Equal(t, "Vergalhão CA-50 10mm", dto.ProductName)
	assert.Equal(t, 42.75, dto.UnitPrice)
	assert.Equal(t, 4.0, dto.DifalPercent)
	assert.Equal(t, 1.5, dto.IPI)
	require.NotNil(t, dto.LastApprovedPrice)
	assert.Equal(t, 41.90, *dto.LastApprovedPrice)
	assert.Nil(t, dto.FirstQuotedPrice)
	assert.True(t, dto.FlaggedForRenegotiation)
}

func TestToApprovalRecordDTO_CorruptItemsYieldsEmptyList(t *testing.T) {
	dto := mapper.ToApprovalRecordDTO(&domain.ApprovalRecord{
		ApprovedItems: "{not json",
		ApprovedAt:    time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC),
	})

	require.NotNil(t, dto.ApprovedItems)
	assert.Empty(t, dto.ApprovedItems)
}

func TestToApprovalRecordDTO_EmptyItems(t *testing.T) {
	dto := mapper.ToApprovalRecordDTO(&domain.ApprovalRecord{
		ApprovedAt: time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC),
	})

	require.NotNil(t, dto.ApprovedItems)
	assert.Empty(t, dto.ApprovedItems)
}

func TestToSavingDTO(t *testing.T) {
	s := &domain.Saving{
		BaseModel: domain.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Date(2026, 3, 6, 8, 0, 0, 0, time.UTC),
		},
		QuotationID:       uuid.New(),
		BuyerID:           "buyer-3",
		PurchaseType:      domain.PurchaseTypeEmergency,
		TotalInitialValue: 10000,
		TotalFinalValue:   9200,
		Economy:           800,
		EconomyPercent:    8,
		Rounds:            2,
		Status:            domain.SavingStatusConcluded,
		Items: []domain.SavingItem{
			{
				Description:      "Cimento CP-II",
				SupplierName:     "Votoran",
				Quantity:         200,
				InitialUnitPrice: 50,
				FinalUnitPrice:   46,
				Economy:          800,
				EconomyPercent:   8,
			},
		},
	}

	dto := mapper.ToSavingDTO(s)

	assert.Equal(t, s.ID, dto.ID)
	assert.Equal(t, s.QuotationID, dto.QuotationID)
	assert.Equal(t, domain.PurchaseTypeEmergency, dto.PurchaseType)
	assert.Equal(t, 800.0, dto.Economy)
	assert.Equal(t, 2, dto.Rounds)
	assert.Equal(t, "2026-03-06T08:00:00Z", dto.CreatedAt)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 46.0, dto.Items[0].FinalUnitPrice)
}

func TestToQuotationEventDTO(t *testing.T) {
	e := &domain.QuotationEvent{
		ID:          uuid.New(),
		QuotationID: uuid.New(),
		Version:     2,
		Kind:        domain.EventKindApproved,
		FromStatus:  quote.StatusAwaitingApproval,
		ToStatus:    quote.StatusApproved,
		ActorID:     "supervisor-1",
		ActorName:   "Carlos Lima",
		OccurredAt:  time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC),
	}

	dto := mapper.ToQuotationEventDTO(e)

	assert.Equal(t, e.ID, dto.ID)
	assert.Equal(t, domain.EventKindApproved, dto.Kind)
	assert.Equal(t, quote.StatusAwaitingApproval, dto.FromStatus)
	assert.Equal(t, quote.StatusApproved, dto.ToStatus)
	assert.Equal(t, "2026-03-05T14:00:00Z", dto.OccurredAt)
}

func TestToUserDTO(t *testing.T) {
	u := &domain.User{
		ID:          "buyer-3",
		Email:       "ana.souza@comprasys.io",
		DisplayName: "Ana Souza",
		Roles:       []string{"buyer"},
		IsActive:    true,
	}

	dto := mapper.ToUserDTO(u)

	assert.Equal(t, "buyer-3", dto.ID)
	assert.Equal(t, "ana.souza@comprasys.io", dto.Email)
	assert.Equal(t, []string{"buyer"}, dto.Roles)
	assert.True(t, dto.IsActive)
}
