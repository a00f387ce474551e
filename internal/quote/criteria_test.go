package quote_test

import (
	"testing"

	"github.com/comprasys/cotacao-api/internal/quote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two suppliers, one product: X is cheaper on delivery, Y on price and
// payment term.
func scenarioOffers() []quote.Offer {
	return []quote.Offer{
		{
			ProductID: "P1", ProductName: "Acucar", SupplierName: "Fornecedor X",
			UnitPrice: 10.00, Quantity: 5,
			DeliveryTerm: "10 dias", DeliveryDays: 10,
			PaymentTerm: "30 dias", PaymentDays: 30,
		},
		{
			ProductID: "P1", ProductName: "Acucar", SupplierName: "Fornecedor Y",
			UnitPrice: 9.00, Quantity: 5,
			DeliveryTerm: "20 dias", DeliveryDays: 20,
			PaymentTerm: "60 dias", PaymentDays: 60,
		},
	}
}

func TestBuildCriteria_TwoSupplierScenario(t *testing.T) {
	cmp := quote.BuildCriteria(quote.ComputeEffectivePrices(scenarioOffers()))
	require.Len(t, cmp.Groups, 1)

	sel := cmp.Groups[quote.GroupKey{Kind: quote.GroupKeyByID, Value: "P1"}]
	require.NotNil(t, sel)

	require.Len(t, sel.BestPrice, 1)
	assert.Equal(t, "Fornecedor Y", sel.BestPrice[0].SupplierName)
	assert.Equal(t, 9.00, sel.BestPriceValue)
	assert.InDelta(t, 9.00, sel.BestPrice[0].EffectiveUnitPrice, 1e-9)

	assert.Equal(t, "Fornecedor X", sel.BestDelivery.SupplierName)
	assert.Equal(t, 10, sel.BestDeliveryDays)

	assert.Equal(t, "Fornecedor Y", sel.BestPayment.SupplierName)
	assert.Equal(t, 60, sel.BestPaymentDays)
}

func TestBuildCriteria_TiedBestPriceReportsAll(t *testing.T) {
	offers := []quote.Offer{
		{ProductID: "P1", SupplierName: "B", UnitPrice: 5, Quantity: 1, DeliveryDays: 3, PaymentDays: 30},
		{ProductID: "P1", SupplierName: "A", UnitPrice: 5, Quantity: 1, DeliveryDays: 4, PaymentDays: 30},
		{ProductID: "P1", SupplierName: "C", UnitPrice: 6, Quantity: 1, DeliveryDays: 1, PaymentDays: 30},
	}
	cmp := quote.BuildCriteria(offers)
	sel := cmp.Groups[quote.GroupKey{Kind: quote.GroupKeyByID, Value: "P1"}]

	require.Len(t, sel.BestPrice, 2)
	// Deterministic supplier-name order.
	assert.Equal(t, "A", sel.BestPrice[0].SupplierName)
	assert.Equal(t, "B", sel.BestPrice[1].SupplierName)
}

func TestBuildCriteria_UnparsableDeliveryNeverWins(t *testing.T) {
	offers := []quote.Offer{
		{ProductID: "P1", SupplierName: "A", UnitPrice: 1, Quantity: 1, DeliveryDays: quote.UnknownDeliveryDays, PaymentDays: 30},
		{ProductID: "P1", SupplierName: "B", UnitPrice: 99, Quantity: 1, DeliveryDays: 45, PaymentDays: 30},
	}
	cmp := quote.BuildCriteria(offers)
	sel := cmp.Groups[quote.GroupKey{Kind: quote.GroupKeyByID, Value: "P1"}]
	assert.Equal(t, "B", sel.BestDelivery.SupplierName)
}

func TestBuildCriteria_UnparsablePaymentNeverWins(t *testing.T) {
	offers := []quote.Offer{
		{ProductID: "P1", SupplierName: "A", UnitPrice: 1, Quantity: 1, DeliveryDays: 5, PaymentDays: quote.UnknownPaymentDays},
		{ProductID: "P1", SupplierName: "B", UnitPrice: 99, Quantity: 1, DeliveryDays: 5, PaymentDays: 7},
	}
	cmp := quote.BuildCriteria(offers)
	sel := cmp.Groups[quote.GroupKey{Kind: quote.GroupKeyByID, Value: "P1"}]
	assert.Equal(t, "B", sel.BestPayment.SupplierName)
}

func TestBuildCriteria_SingleOfferWinsEverything(t *testing.T) {
	offers := []quote.Offer{
		{ProductID: "P1", SupplierName: "A", UnitPrice: 4, Quantity: 2, DeliveryDays: 9, PaymentDays: 15},
	}
	cmp := quote.BuildCriteria(offers)
	sel := cmp.Groups[quote.GroupKey{Kind: quote.GroupKeyByID, Value: "P1"}]

	require.Len(t, sel.BestPrice, 1)
	assert.Equal(t, "A", sel.BestPrice[0].SupplierName)
	assert.Equal(t, "A", sel.BestDelivery.SupplierName)
	assert.Equal(t, "A", sel.BestPayment.SupplierName)
}

func TestBuildCriteria_BestBoundsHold(t *testing.T) {
	offers := []quote.Offer{
		{ProductID: "P1", SupplierName: "A", UnitPrice: 7, Quantity: 1, DeliveryDays: 12, PaymentDays: 30},
		{ProductID: "P1", SupplierName: "B", UnitPrice: 6.5, Quantity: 1, DeliveryDays: 8, PaymentDays: 21},
		{ProductID: "P1", SupplierName: "C", UnitPrice: 8, Quantity: 1, DeliveryDays: 30, PaymentDays: 45},
	}
	cmp := quote.BuildCriteria(offers)
	sel := cmp.Groups[quote.GroupKey{Kind: quote.GroupKeyByID, Value: "P1"}]

	for _, o := range sel.Offers {
		assert.LessOrEqual(t, sel.BestPrice[0].UnitPrice, o.UnitPrice)
		assert.LessOrEqual(t, sel.BestDeliveryDays, o.DeliveryDays)
		assert.GreaterOrEqual(t, sel.BestPaymentDays, o.PaymentDays)
	}
}

func TestBuildCriteria_NameKeyedGroupsAreFlagged(t *testing.T) {
	offers := []quote.Offer{
		{ProductID: "P1", ProductName: "Arroz", SupplierName: "A", UnitPrice: 1, Quantity: 1},
		{ProductName: "Feijao Preto", SupplierName: "A", UnitPrice: 2, Quantity: 1},
		{ProductName: "feijao  preto", SupplierName: "B", UnitPrice: 3, Quantity: 1},
	}
	cmp := quote.BuildCriteria(offers)

	require.Len(t, cmp.Groups, 2)
	require.Len(t, cmp.NameKeyed, 1)
	assert.Equal(t, "feijao preto", cmp.NameKeyed[0].Value)

	// Normalized names merge into one group.
	sel := cmp.Groups[quote.GroupKey{Kind: quote.GroupKeyByName, Value: "feijao preto"}]
	require.NotNil(t, sel)
	assert.Len(t, sel.Offers, 2)
}

func TestComparison_KeysAreDeterministic(t *testing.T) {
	offers := []quote.Offer{
		{ProductName: "Zeta", SupplierName: "A", UnitPrice: 1, Quantity: 1},
		{ProductID: "P2", SupplierName: "A", UnitPrice: 1, Quantity: 1},
		{ProductID: "P1", SupplierName: "A", UnitPrice: 1, Quantity: 1},
		{ProductName: "Alfa", SupplierName: "A", UnitPrice: 1, Quantity: 1},
	}
	cmp := quote.BuildCriteria(offers)
	keys := cmp.Keys()
	require.Len(t, keys, 4)
	assert.Equal(t, quote.GroupKey{Kind: quote.GroupKeyByID, Value: "P1"}, keys[0])
	assert.Equal(t, quote.GroupKey{Kind: quote.GroupKeyByID, Value: "P2"}, keys[1])
	assert.Equal(t, quote.GroupKey{Kind: quote.GroupKeyByName, Value: "alfa"}, keys[2])
	assert.Equal(t, quote.GroupKey{Kind: quote.GroupKeyByName, Value: "zeta"}, keys[3])
}
