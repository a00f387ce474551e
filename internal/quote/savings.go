package quote

// ItemSavings holds the economy figures for one product group, all derived
// from the group's best-price selection. The three figures are computed
// independently; none is derived from another.
type ItemSavings struct {
	Key           GroupKey
	Quantity      float64
	BestUnitPrice float64

	// Versus the last historically approved price. Zero when no baseline.
	EconomyVsLastApproved    float64
	EconomyVsLastApprovedPct float64

	// Versus the average unit price across the group's current offers.
	EconomyVsAverage    float64
	EconomyVsAveragePct float64

	// Versus the price at the quotation's very first version.
	SavingVsFirstQuoted    float64
	SavingVsFirstQuotedPct float64
}

// SavingsReport aggregates item-level savings plus quotation-level totals.
type SavingsReport struct {
	Items []ItemSavings

	TotalEconomyVsLastApproved    float64
	TotalEconomyVsLastApprovedPct float64
	TotalEconomyVsAverage         float64
	TotalEconomyVsAveragePct      float64
	TotalSavingVsFirstQuoted      float64
	TotalSavingVsFirstQuotedPct   float64
}

// ComputeSavings evaluates the economy figures for every product group in
// the comparison. Percentages are the ratio of each economy to its baseline
// total and are zero whenever the baseline total is zero, so no NaN or Inf
// ever reaches a caller. The function is idempotent over immutable input.
func ComputeSavings(cmp *Comparison) SavingsReport {
	var report SavingsReport

	var baselineLastApproved, baselineAverage, baselineFirstQuoted float64

	for _, key := range cmp.Keys() {
		sel := cmp.Groups[key]
		best := sel.BestPrice[0]

		item := ItemSavings{
			Key:           key,
			Quantity:      best.Quantity,
			BestUnitPrice: best.UnitPrice,
		}

		if last := lastApprovedBaseline(sel); last != nil {
			item.EconomyVsLastApproved = (*last - best.UnitPrice) * best.Quantity
			item.EconomyVsLastApprovedPct = percentOf(item.EconomyVsLastApproved, *last*best.Quantity)
			baselineLastApproved += *last * best.Quantity
		}

		avg := averageUnitPrice(sel.Offers)
		item.EconomyVsAverage = (avg - best.UnitPrice) * best.Quantity
		item.EconomyVsAveragePct = percentOf(item.EconomyVsAverage, avg*best.Quantity)
		baselineAverage += avg * best.Quantity

		if first := best.FirstQuotedPrice; first != nil {
			item.SavingVsFirstQuoted = (*first - best.UnitPrice) * best.Quantity
			item.SavingVsFirstQuotedPct = percentOf(item.SavingVsFirstQuoted, *first*best.Quantity)
			baselineFirstQuoted += *first * best.Quantity
		}

		report.Items = append(report.Items, item)
		report.TotalEconomyVsLastApproved += item.EconomyVsLastApproved
		report.TotalEconomyVsAverage += item.EconomyVsAverage
		report.TotalSavingVsFirstQuoted += item.SavingVsFirstQuoted
	}

	report.TotalEconomyVsLastApprovedPct = percentOf(report.TotalEconomyVsLastApproved, baselineLastApproved)
	report.TotalEconomyVsAveragePct = percentOf(report.TotalEconomyVsAverage, baselineAverage)
	report.TotalSavingVsFirstQuotedPct = percentOf(report.TotalSavingVsFirstQuoted, baselineFirstQuoted)
	return report
}

// lastApprovedBaseline picks the historical approved price for a group:
// the best-price offer's value when present, otherwise the first offer in
// the group that carries one.
func lastApprovedBaseline(sel *CriteriaSelection) *float64 {
	if v := sel.BestPrice[0].LastApprovedPrice; v != nil {
		return v
	}
	for _, o := range sel.Offers {
		if o.LastApprovedPrice != nil {
			return o.LastApprovedPrice
		}
	}
	return nil
}

func averageUnitPrice(offers []Offer) float64 {
	if len(offers) == 0 {
		return 0
	}
	var sum float64
	for _, o := range offers {
		sum += o.UnitPrice
	}
	return sum / float64(len(offers))
}

func percentOf(economy, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return economy / baseline * 100
}
