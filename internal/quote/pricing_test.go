package quote_test

import (
	"testing"

	"github.com/comprasys/cotacao-api/internal/quote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveUnitPrice_ProratesFreightAcrossBasket(t *testing.T) {
	basket := []quote.Offer{
		{SupplierName: "A", UnitPrice: 10, Quantity: 5, FreightTotal: 30},  // line total 50
		{SupplierName: "A", UnitPrice: 25, Quantity: 2, FreightTotal: 30},  // line total 50
	}

	// Each line carries half the freight: 15 over its units.
	first := quote.EffectiveUnitPrice(basket[0], basket)
	assert.InDelta(t, 10+15.0/5, first, 1e-9)

	second := quote.EffectiveUnitPrice(basket[1], basket)
	assert.InDelta(t, 25+15.0/2, second, 1e-9)
}

func TestEffectiveUnitPrice_AppliesDifalAndIPI(t *testing.T) {
	offer := quote.Offer{SupplierName: "A", UnitPrice: 100, Quantity: 1, DifalPercent: 4, IPI: 2.5}
	got := quote.EffectiveUnitPrice(offer, []quote.Offer{offer})
	assert.InDelta(t, 100*1.04+2.5, got, 1e-9)
}

func TestEffectiveUnitPrice_ZeroBasketAllocatesNoFreight(t *testing.T) {
	basket := []quote.Offer{
		{SupplierName: "A", UnitPrice: 10, Quantity: 0, FreightTotal: 100},
		{SupplierName: "A", UnitPrice: 20, Quantity: 0, FreightTotal: 100},
	}
	got := quote.EffectiveUnitPrice(basket[0], basket)
	assert.Equal(t, 10.0, got)
}

func TestComputeEffectivePrices_NeverBelowUnitPrice(t *testing.T) {
	offers := []quote.Offer{
		{ProductID: "P1", SupplierName: "A", UnitPrice: 10, Quantity: 5, DifalPercent: 4, FreightTotal: 50},
		{ProductID: "P2", SupplierName: "A", UnitPrice: 3.3, Quantity: 12, FreightTotal: 50},
		{ProductID: "P1", SupplierName: "B", UnitPrice: 9.5, Quantity: 5},
	}

	priced := quote.ComputeEffectivePrices(offers)
	require.Len(t, priced, len(offers))
	for _, o := range priced {
		assert.GreaterOrEqual(t, o.EffectiveUnitPrice, o.UnitPrice,
			"freight and taxes are additive, never negative")
	}
}

func TestComputeEffectivePrices_BasketsAreBySupplier(t *testing.T) {
	offers := []quote.Offer{
		{ProductID: "P1", SupplierName: "A", UnitPrice: 10, Quantity: 10, FreightTotal: 20},
		{ProductID: "P1", SupplierName: "B", UnitPrice: 10, Quantity: 10, FreightTotal: 40},
	}
	priced := quote.ComputeEffectivePrices(offers)
	assert.InDelta(t, 12.0, priced[0].EffectiveUnitPrice, 1e-9)
	assert.InDelta(t, 14.0, priced[1].EffectiveUnitPrice, 1e-9)
}
