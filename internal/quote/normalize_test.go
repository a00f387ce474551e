package quote_test

import (
	"testing"
	"time"

	"github.com/comprasys/cotacao-api/internal/quote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() quote.Clock {
	return func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
}

func TestParseDeliveryDays(t *testing.T) {
	tests := []struct {
		name     string
		term     string
		expected int
		ok       bool
	}{
		{"plain days", "10 dias", 10, true},
		{"days uppercase", "15 DIAS UTEIS", 15, true},
		{"bare number", "7", 7, true},
		{"literal date wins over digits", "entrega 15/06/2025", 14, true},
		{"past date clamps to zero", "01/01/2025", 0, true},
		{"empty is sentinel without error", "", quote.UnknownDeliveryDays, true},
		{"garbage is sentinel with error", "a combinar", quote.UnknownDeliveryDays, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, ok := quote.ParseDeliveryDays(tt.term, fixedClock())
			assert.Equal(t, tt.expected, days)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParsePaymentDays(t *testing.T) {
	tests := []struct {
		name     string
		term     string
		expected int
		ok       bool
	}{
		{"plain days", "30 dias", 30, true},
		{"slash terms take first run", "28/56 dias", 28, true},
		{"empty is sentinel", "", quote.UnknownPaymentDays, true},
		{"garbage is sentinel with error", "boleto", quote.UnknownPaymentDays, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, ok := quote.ParsePaymentDays(tt.term)
			assert.Equal(t, tt.expected, days)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNormalizeOffer_NumericCoercion(t *testing.T) {
	raw := quote.RawOffer{
		ProductID:    "P1",
		ProductName:  "  Arroz Tipo 1  ",
		SupplierName: "Fornecedor A",
		UnitPrice:    "1.234,56",
		Quantity:     "10",
		Unit:         "kg",
		DeliveryTerm: "10 dias",
		PaymentTerm:  "30 dias",
		DifalPercent: "4",
		IPI:          "",
		FreightTotal: "R$ 150,00",
	}

	offer, errs := quote.NormalizeOffer(raw, fixedClock())
	assert.Empty(t, errs)
	assert.Equal(t, 1234.56, offer.UnitPrice)
	assert.Equal(t, 10.0, offer.Quantity)
	assert.Equal(t, 4.0, offer.DifalPercent)
	assert.Equal(t, 0.0, offer.IPI)
	assert.Equal(t, 150.0, offer.FreightTotal)
	assert.Equal(t, 10, offer.DeliveryDays)
	assert.Equal(t, 30, offer.PaymentDays)
	assert.Equal(t, "Arroz Tipo 1", offer.ProductName)
}

func TestNormalizeOffer_DefaultsOnGarbage(t *testing.T) {
	raw := quote.RawOffer{
		ProductName:  "Feijao",
		SupplierName: "Fornecedor B",
		UnitPrice:    "abc",
		Quantity:     "-5",
		DeliveryTerm: "a combinar",
		PaymentTerm:  "boleto",
		DifalPercent: "??",
	}

	offer, errs := quote.NormalizeOffer(raw, fixedClock())
	require.Len(t, errs, 5)
	assert.Equal(t, 0.0, offer.UnitPrice)
	assert.Equal(t, 0.0, offer.Quantity)
	assert.Equal(t, 0.0, offer.DifalPercent)
	assert.Equal(t, quote.UnknownDeliveryDays, offer.DeliveryDays)
	assert.Equal(t, quote.UnknownPaymentDays, offer.PaymentDays)
}

func TestNormalizeOffer_RoundTripIsNoOp(t *testing.T) {
	raw := quote.RawOffer{
		ProductID:    "P9",
		ProductName:  "Oleo de Soja",
		SupplierName: "Fornecedor C",
		UnitPrice:    "9.9",
		Quantity:     "3",
		DeliveryTerm: "5 dias",
		PaymentTerm:  "45 dias",
		DifalPercent: "0",
		FreightTotal: "12",
	}

	first, errs := quote.NormalizeOffer(raw, fixedClock())
	require.Empty(t, errs)

	// Feed the normalized values back through: nothing changes.
	again := quote.RawOffer{
		ProductID:    first.ProductID,
		ProductName:  first.ProductName,
		SupplierName: first.SupplierName,
		UnitPrice:    quote.FormatDecimal(first.UnitPrice),
		Quantity:     quote.FormatDecimal(first.Quantity),
		Unit:         first.Unit,
		DeliveryTerm: first.DeliveryTerm,
		PaymentTerm:  first.PaymentTerm,
		DifalPercent: quote.FormatDecimal(first.DifalPercent),
		IPI:          quote.FormatDecimal(first.IPI),
		FreightTotal: quote.FormatDecimal(first.FreightTotal),
	}
	second, errs := quote.NormalizeOffer(again, fixedClock())
	require.Empty(t, errs)
	assert.Equal(t, first, second)
}

func TestKeyFor(t *testing.T) {
	withID := quote.Offer{ProductID: "P1", ProductName: "Arroz"}
	key := quote.KeyFor(withID)
	assert.Equal(t, quote.GroupKeyByID, key.Kind)
	assert.Equal(t, "P1", key.Value)
	assert.False(t, key.ByName())

	withoutID := quote.Offer{ProductName: "  Arroz   Tipo 1 "}
	key = quote.KeyFor(withoutID)
	assert.Equal(t, quote.GroupKeyByName, key.Kind)
	assert.Equal(t, "arroz tipo 1", key.Value)
	assert.True(t, key.ByName())
}
