package quote

// ComputeEffectivePrices annotates every offer with its effective landed
// unit price: unit price with DIFAL and IPI applied, plus the per-unit share
// of the supplier's freight prorated across that supplier's basket.
//
// No rounding happens here; comparisons run on full float precision and
// formatting is a presentation concern.
func ComputeEffectivePrices(offers []Offer) []Offer {
	baskets := make(map[string][]Offer)
	for _, o := range offers {
		k := supplierKey(o)
		baskets[k] = append(baskets[k], o)
	}

	out := make([]Offer, len(offers))
	for i, o := range offers {
		out[i] = o
		out[i].EffectiveUnitPrice = EffectiveUnitPrice(o, baskets[supplierKey(o)])
	}
	return out
}

// EffectiveUnitPrice computes the landed unit price of one offer given the
// full basket of offers from the same supplier in the same quotation
// version.
//
// The freight share is proportional to the line's share of the supplier
// total. A supplier whose basket totals zero (all quantities zero) allocates
// zero freight to every line; dividing by zero is never attempted.
func EffectiveUnitPrice(o Offer, supplierBasket []Offer) float64 {
	lineTotal := o.UnitPrice * o.Quantity

	var supplierTotal float64
	for _, b := range supplierBasket {
		supplierTotal += b.UnitPrice * b.Quantity
	}

	var freightShare float64
	if supplierTotal > 0 {
		freightShare = (lineTotal / supplierTotal) * o.FreightTotal
	}

	var freightPerUnit float64
	if o.Quantity > 0 {
		freightPerUnit = freightShare / o.Quantity
	}

	priceWithTaxes := o.UnitPrice*(1+o.DifalPercent/100) + o.IPI
	return priceWithTaxes + freightPerUnit
}
