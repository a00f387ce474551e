package quote

import "sort"

// CriteriaSelection holds, for one product group, the offers that are best
// on each of the three independent criteria together with the numeric value
// that decided each selection.
type CriteriaSelection struct {
	Key    GroupKey
	Offers []Offer

	// BestPrice reports every offer tied on the minimal unit price; the
	// caller chooses a tie-break when it needs exactly one winner.
	BestPrice      []Offer
	BestPriceValue float64

	// BestDelivery is the offer with the fewest parsed delivery days.
	// Ties break on lowest unit price, then supplier name.
	BestDelivery     Offer
	BestDeliveryDays int

	// BestPayment is the offer with the most parsed payment days, same
	// tie-break order.
	BestPayment     Offer
	BestPaymentDays int
}

// Comparison is the aggregated result of grouping a quotation version's
// offers by product and selecting the best offers per criterion.
type Comparison struct {
	Groups map[GroupKey]*CriteriaSelection

	// NameKeyed lists groups that fell back to name-based keys. Distinct
	// products with identical names merge silently under such keys, so
	// callers log or flag each entry instead of trusting it blindly.
	NameKeyed []GroupKey
}

// Keys returns the group keys in deterministic order (ids first, then
// names, each sorted by value).
func (c *Comparison) Keys() []GroupKey {
	keys := make([]GroupKey, 0, len(c.Groups))
	for k := range c.Groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind == GroupKeyByID
		}
		return keys[i].Value < keys[j].Value
	})
	return keys
}

// BuildCriteria groups offers by product identity and derives the best
// price, delivery and payment selections for each group. Groups are only
// built over existing offers; a single-offer group trivially wins all three
// criteria with that offer.
func BuildCriteria(offers []Offer) *Comparison {
	groups := make(map[GroupKey]*CriteriaSelection)
	for _, o := range offers {
		key := KeyFor(o)
		sel, ok := groups[key]
		if !ok {
			sel = &CriteriaSelection{Key: key}
			groups[key] = sel
		}
		sel.Offers = append(sel.Offers, o)
	}

	cmp := &Comparison{Groups: groups}
	for key, sel := range groups {
		selectBest(sel)
		if key.ByName() {
			cmp.NameKeyed = append(cmp.NameKeyed, key)
		}
	}
	sort.Slice(cmp.NameKeyed, func(i, j int) bool {
		return cmp.NameKeyed[i].Value < cmp.NameKeyed[j].Value
	})
	return cmp
}

func selectBest(sel *CriteriaSelection) {
	// Stable supplier-name order makes every downstream tie-break
	// deterministic across requests.
	offers := make([]Offer, len(sel.Offers))
	copy(offers, sel.Offers)
	sort.SliceStable(offers, func(i, j int) bool {
		return NormalizeName(offers[i].SupplierName) < NormalizeName(offers[j].SupplierName)
	})
	sel.Offers = offers

	sel.BestPriceValue = offers[0].UnitPrice
	for _, o := range offers[1:] {
		if o.UnitPrice < sel.BestPriceValue {
			sel.BestPriceValue = o.UnitPrice
		}
	}
	sel.BestPrice = nil
	for _, o := range offers {
		if o.UnitPrice == sel.BestPriceValue {
			sel.BestPrice = append(sel.BestPrice, o)
		}
	}

	sel.BestDelivery = offers[0]
	for _, o := range offers[1:] {
		if betterDelivery(o, sel.BestDelivery) {
			sel.BestDelivery = o
		}
	}
	sel.BestDeliveryDays = sel.BestDelivery.DeliveryDays

	sel.BestPayment = offers[0]
	for _, o := range offers[1:] {
		if betterPayment(o, sel.BestPayment) {
			sel.BestPayment = o
		}
	}
	sel.BestPaymentDays = sel.BestPayment.PaymentDays
}

func betterDelivery(a, b Offer) bool {
	if a.DeliveryDays != b.DeliveryDays {
		return a.DeliveryDays < b.DeliveryDays
	}
	if a.UnitPrice != b.UnitPrice {
		return a.UnitPrice < b.UnitPrice
	}
	return NormalizeName(a.SupplierName) < NormalizeName(b.SupplierName)
}

func betterPayment(a, b Offer) bool {
	if a.PaymentDays != b.PaymentDays {
		return a.PaymentDays > b.PaymentDays
	}
	if a.UnitPrice != b.UnitPrice {
		return a.UnitPrice < b.UnitPrice
	}
	return NormalizeName(a.SupplierName) < NormalizeName(b.SupplierName)
}
