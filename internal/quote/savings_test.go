package quote_test

import (
	"testing"

	"github.com/comprasys/cotacao-api/internal/quote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestComputeSavings_AllFiguresIndependent(t *testing.T) {
	offers := []quote.Offer{
		{
			ProductID: "P1", SupplierName: "A", UnitPrice: 8, Quantity: 10,
			LastApprovedPrice: floatPtr(10), FirstQuotedPrice: floatPtr(9),
		},
		{ProductID: "P1", SupplierName: "B", UnitPrice: 12, Quantity: 10},
	}
	report := quote.ComputeSavings(quote.BuildCriteria(offers))
	require.Len(t, report.Items, 1)
	item := report.Items[0]

	// vs last approved: (10-8)*10 = 20, over baseline 100 -> 20%
	assert.InDelta(t, 20, item.EconomyVsLastApproved, 1e-9)
	assert.InDelta(t, 20, item.EconomyVsLastApprovedPct, 1e-9)

	// vs average: avg=10, (10-8)*10 = 20
	assert.InDelta(t, 20, item.EconomyVsAverage, 1e-9)
	assert.InDelta(t, 20, item.EconomyVsAveragePct, 1e-9)

	// vs first quoted: (9-8)*10 = 10, over baseline 90
	assert.InDelta(t, 10, item.SavingVsFirstQuoted, 1e-9)
	assert.InDelta(t, 10.0/90.0*100, item.SavingVsFirstQuotedPct, 1e-9)
}

func TestComputeSavings_NoBaselineMeansZero(t *testing.T) {
	offers := []quote.Offer{
		{ProductID: "P1", SupplierName: "A", UnitPrice: 8, Quantity: 10},
	}
	report := quote.ComputeSavings(quote.BuildCriteria(offers))
	require.Len(t, report.Items, 1)

	assert.Zero(t, report.Items[0].EconomyVsLastApproved)
	assert.Zero(t, report.Items[0].EconomyVsLastApprovedPct)
	assert.Zero(t, report.Items[0].SavingVsFirstQuoted)
	assert.Zero(t, report.Items[0].SavingVsFirstQuotedPct)
	// Single offer: average equals the offer itself.
	assert.Zero(t, report.Items[0].EconomyVsAverage)
}

func TestComputeSavings_ZeroBaselineAvoidsDivision(t *testing.T) {
	offers := []quote.Offer{
		{ProductID: "P1", SupplierName: "A", UnitPrice: 0, Quantity: 0, LastApprovedPrice: floatPtr(0)},
	}
	report := quote.ComputeSavings(quote.BuildCriteria(offers))
	require.Len(t, report.Items, 1)
	assert.Zero(t, report.Items[0].EconomyVsLastApprovedPct)
	assert.Zero(t, report.Items[0].EconomyVsAveragePct)
	assert.Zero(t, report.TotalEconomyVsAveragePct)
}

func TestComputeSavings_QuotationTotalsSumItems(t *testing.T) {
	offers := []quote.Offer{
		{ProductID: "P1", SupplierName: "A", UnitPrice: 8, Quantity: 10, LastApprovedPrice: floatPtr(10)},
		{ProductID: "P1", SupplierName: "B", UnitPrice: 9, Quantity: 10},
		{ProductID: "P2", SupplierName: "A", UnitPrice: 4, Quantity: 5, LastApprovedPrice: floatPtr(5)},
		{ProductID: "P2", SupplierName: "B", UnitPrice: 6, Quantity: 5},
	}
	report := quote.ComputeSavings(quote.BuildCriteria(offers))
	require.Len(t, report.Items, 2)

	var sum float64
	for _, item := range report.Items {
		sum += item.EconomyVsLastApproved
	}
	assert.InDelta(t, sum, report.TotalEconomyVsLastApproved, 1e-9)
	// (10-8)*10 + (5-4)*5 = 25 over baseline 100+25
	assert.InDelta(t, 25, report.TotalEconomyVsLastApproved, 1e-9)
	assert.InDelta(t, 20, report.TotalEconomyVsLastApprovedPct, 1e-9)
}

func TestComputeSavings_Idempotent(t *testing.T) {
	offers := []quote.Offer{
		{ProductID: "P1", SupplierName: "A", UnitPrice: 8, Quantity: 10, LastApprovedPrice: floatPtr(10), FirstQuotedPrice: floatPtr(11)},
		{ProductID: "P1", SupplierName: "B", UnitPrice: 12, Quantity: 10},
	}
	cmp := quote.BuildCriteria(offers)
	first := quote.ComputeSavings(cmp)
	second := quote.ComputeSavings(cmp)
	assert.Equal(t, first, second)
}
