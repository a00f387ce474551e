package service

import (
	"github.com/comprasys/cotacao-api/internal/domain"
	"github.com/comprasys/cotacao-api/internal/quote"
)

// Bridges between persisted quotation rows and the pure comparison core.

// rawOffersFromRequest flattens a create/resubmit request into the raw form
// the normalizer coerces. Numeric fields stay as typed by the buyer.
func rawOffersFromRequest(suppliers []domain.CreateQuotationSupplierReq) []quote.RawOffer {
	var raw []quote.RawOffer
	for _, s := range suppliers {
		for _, item := range s.Items {
			raw = append(raw, quote.RawOffer{
				ProductID:    item.ProductID,
				ProductName:  item.ProductName,
				SupplierID:   s.SupplierID,
				SupplierName: s.Name,
				UnitPrice:    item.UnitPrice,
				Quantity:     item.Quantity,
				Unit:         item.Unit,
				DeliveryTerm: item.DeliveryTerm,
				PaymentTerm:  s.PaymentTerm,
				DifalPercent: item.DifalPercent,
				IPI:          item.IPI,
				FreightTotal: s.FreightTotal,
			})
		}
	}
	return raw
}

// offersFromSuppliers rebuilds canonical offers from persisted rows. Prices
// were normalized at write time; only the term texts need re-parsing.
func offersFromSuppliers(suppliers []domain.QuotationSupplier) []quote.Offer {
	var offers []quote.Offer
	for _, s := range suppliers {
		for _, item := range s.Items {
			deliveryDays, _ := quote.ParseDeliveryDays(item.DeliveryTerm, nil)
			paymentDays, _ := quote.ParsePaymentDays(s.PaymentTerm)
			offers = append(offers, quote.Offer{
				ProductID:         item.ProductID,
				ProductName:       item.ProductName,
				SupplierID:        s.SupplierID,
				SupplierName:      s.Name,
				UnitPrice:         item.UnitPrice,
				Quantity:          item.Quantity,
				Unit:              item.Unit,
				DeliveryTerm:      item.DeliveryTerm,
				DeliveryDays:      deliveryDays,
				PaymentTerm:       s.PaymentTerm,
				PaymentDays:       paymentDays,
				DifalPercent:      item.DifalPercent,
				IPI:               item.IPI,
				FreightTotal:      s.FreightTotal,
				LastApprovedPrice: item.LastApprovedPrice,
				FirstQuotedPrice:  item.FirstQuotedPrice,
			})
		}
	}
	return offers
}

// currentSuppliers filters the preloaded supplier rows down to one version.
func currentSuppliers(q *domain.Quotation) []domain.QuotationSupplier {
	var current []domain.QuotationSupplier
	for _, s := range q.Suppliers {
		if s.Version == q.CurrentVersion {
			current = append(current, s)
		}
	}
	return current
}

func itemRefsFromDTO(refs []domain.ItemRefDTO) []quote.ItemRef {
	out := make([]quote.ItemRef, len(refs))
	for i, r := range refs {
		out[i] = quote.ItemRef{
			ProductID:    r.ProductID,
			ProductName:  r.ProductName,
			SupplierName: r.SupplierName,
		}
	}
	return out
}

func itemRefsToDTO(refs []quote.ItemRef) []domain.ItemRefDTO {
	out := make([]domain.ItemRefDTO, len(refs))
	for i, r := range refs {
		out[i] = domain.ItemRefDTO{
			ProductID:    r.ProductID,
			ProductName:  r.ProductName,
			SupplierName: r.SupplierName,
		}
	}
	return out
}
