package quote

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	digitRunPattern = regexp.MustCompile(`\d+`)
	datePattern     = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`)
)

// NormalizeOffers turns raw rows into canonical offers. Unparsable numeric
// fields become zero, unparsable term fields become worst-case sentinels,
// and every substitution is reported as a ParseError so callers can log it.
// The function is pure: same input, same output, no side effects.
func NormalizeOffers(raw []RawOffer, clock Clock) ([]Offer, []*ParseError) {
	offers := make([]Offer, 0, len(raw))
	var parseErrs []*ParseError
	for _, r := range raw {
		offer, errs := NormalizeOffer(r, clock)
		offers = append(offers, offer)
		parseErrs = append(parseErrs, errs...)
	}
	return offers, parseErrs
}

// NormalizeOffer normalizes a single raw row. Normalizing an already
// normalized offer's fields is a no-op.
func NormalizeOffer(r RawOffer, clock Clock) (Offer, []*ParseError) {
	ref := ItemRef{ProductID: r.ProductID, ProductName: r.ProductName, SupplierName: r.SupplierName}
	var errs []*ParseError

	coerce := func(field, value string) float64 {
		v, ok := parseDecimal(value)
		if !ok {
			errs = append(errs, &ParseError{Field: field, Value: value, Ref: ref})
			return 0
		}
		if v < 0 {
			// Monetary and quantity fields are never negative.
			errs = append(errs, &ParseError{Field: field, Value: value, Ref: ref})
			return 0
		}
		return v
	}

	deliveryDays, ok := ParseDeliveryDays(r.DeliveryTerm, clock)
	if !ok {
		errs = append(errs, &ParseError{Field: "deliveryTerm", Value: r.DeliveryTerm, Ref: ref})
	}
	paymentDays, ok := ParsePaymentDays(r.PaymentTerm)
	if !ok {
		errs = append(errs, &ParseError{Field: "paymentTerm", Value: r.PaymentTerm, Ref: ref})
	}

	return Offer{
		ProductID:         r.ProductID,
		ProductName:       strings.TrimSpace(r.ProductName),
		SupplierID:        r.SupplierID,
		SupplierName:      strings.TrimSpace(r.SupplierName),
		UnitPrice:         coerce("unitPrice", r.UnitPrice),
		Quantity:          coerce("quantity", r.Quantity),
		Unit:              strings.TrimSpace(r.Unit),
		DeliveryTerm:      strings.TrimSpace(r.DeliveryTerm),
		DeliveryDays:      deliveryDays,
		PaymentTerm:       strings.TrimSpace(r.PaymentTerm),
		PaymentDays:       paymentDays,
		DifalPercent:      coerce("difalPercent", r.DifalPercent),
		IPI:               coerce("ipi", r.IPI),
		FreightTotal:      coerce("freightTotal", r.FreightTotal),
		LastApprovedPrice: r.LastApprovedPrice,
		FirstQuotedPrice:  r.FirstQuotedPrice,
	}, errs
}

// ParseDeliveryDays extracts a comparable number of days from a free-text
// delivery term. A literal DD/MM/YYYY date wins over a digit run and is
// converted to days elapsed from now (never negative). Empty input is not
// an error and yields the sentinel; garbage yields the sentinel and
// ok=false.
func ParseDeliveryDays(term string, clock Clock) (days int, ok bool) {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return UnknownDeliveryDays, true
	}
	if m := datePattern.FindString(trimmed); m != "" {
		date, err := time.ParseInLocation("02/01/2006", m, time.UTC)
		if err == nil {
			elapsed := int(date.Sub(clock.now().UTC().Truncate(24*time.Hour)).Hours() / 24)
			if elapsed < 0 {
				elapsed = 0
			}
			return elapsed, true
		}
	}
	if m := digitRunPattern.FindString(trimmed); m != "" {
		n, err := strconv.Atoi(m)
		if err == nil {
			return n, true
		}
	}
	return UnknownDeliveryDays, false
}

// ParsePaymentDays extracts the payment term in days from free text
// (typically "30 dias"). Empty input yields the sentinel without error.
func ParsePaymentDays(term string) (days int, ok bool) {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return UnknownPaymentDays, true
	}
	if m := digitRunPattern.FindString(trimmed); m != "" {
		n, err := strconv.Atoi(m)
		if err == nil {
			return n, true
		}
	}
	return UnknownPaymentDays, false
}

// parseDecimal coerces a numeric string that may use pt-BR formatting
// ("1.234,56") or plain dot decimals. Empty strings coerce to zero without
// being an error, matching how the legacy system treated blank cells.
func parseDecimal(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, true
	}
	trimmed = strings.TrimPrefix(trimmed, "R$")
	trimmed = strings.TrimSpace(trimmed)

	// "1.234,56" -> "1234.56"; a lone comma is a decimal separator.
	if strings.Contains(trimmed, ",") {
		trimmed = strings.ReplaceAll(trimmed, ".", "")
		trimmed = strings.Replace(trimmed, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatDecimal renders a float the way RawOffer fields carry them. Used by
// callers that rebuild raw rows from typed storage.
func FormatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
