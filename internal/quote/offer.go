// Package quote implements the comparison and approval core for purchase
// quotations: offer normalization, landed-price calculation, per-product
// criteria selection, savings evaluation and the approval state machine.
//
// Everything in this package is a pure, synchronous function over an
// in-memory snapshot of a quotation. Persistence, transport and formatting
// live in the surrounding layers.
package quote

import (
	"fmt"
	"strings"
	"time"
)

// UnknownDeliveryDays is the sentinel for an unparsable delivery term.
// It is large enough that such an offer never wins the best-delivery
// comparison.
const UnknownDeliveryDays = int(^uint32(0) >> 1)

// UnknownPaymentDays is the sentinel for an unparsable payment term.
// Payment terms compare "higher is better", so zero never wins.
const UnknownPaymentDays = 0

// RawOffer is one supplier's quoted line for one product as it arrives from
// imports or manual entry. Numeric fields are strings of uncertain shape
// (pt-BR decimals, empty, garbage) and are coerced by NormalizeOffer.
type RawOffer struct {
	ProductID    string
	ProductName  string
	SupplierID   string
	SupplierName string
	UnitPrice    string
	Quantity     string
	Unit         string
	DeliveryTerm string
	PaymentTerm  string
	DifalPercent string
	IPI          string
	FreightTotal string

	// Historical baselines, when the surrounding system already knows them.
	LastApprovedPrice *float64
	FirstQuotedPrice  *float64
}

// Offer is the canonical, validated form of a quoted line. Immutable once
// built; a renegotiation produces a new quotation version with new offers.
type Offer struct {
	ProductID    string
	ProductName  string
	SupplierID   string
	SupplierName string

	UnitPrice float64
	Quantity  float64
	Unit      string

	// DeliveryTerm keeps the original text; DeliveryDays is the parsed,
	// comparable value (UnknownDeliveryDays when nothing parsed).
	DeliveryTerm string
	DeliveryDays int

	// PaymentTerm keeps the original text; PaymentDays is the parsed value
	// (UnknownPaymentDays when nothing parsed). Higher is better.
	PaymentTerm string
	PaymentDays int

	DifalPercent float64
	IPI          float64

	// FreightTotal is the supplier-level freight for the whole basket,
	// repeated on every line of that supplier. It is prorated by the
	// pricing calculator, never summed across lines.
	FreightTotal float64

	LastApprovedPrice *float64
	FirstQuotedPrice  *float64

	// EffectiveUnitPrice is filled in by ComputeEffectivePrices.
	EffectiveUnitPrice float64
}

// GroupKeyKind tells how a product group key was derived.
type GroupKeyKind string

const (
	GroupKeyByID   GroupKeyKind = "by_id"
	GroupKeyByName GroupKeyKind = "by_name"
)

// GroupKey identifies a product group within a quotation. Keys prefer the
// stable product id; offers without one fall back to the normalized product
// name. Name-keyed groups can silently merge distinct products with the
// same name, so callers must surface ByName groupings (see Comparison).
type GroupKey struct {
	Kind  GroupKeyKind
	Value string
}

// ByName reports whether this key fell back to the product name.
func (k GroupKey) ByName() bool { return k.Kind == GroupKeyByName }

func (k GroupKey) String() string {
	return fmt.Sprintf("%s:%s", k.Kind, k.Value)
}

// KeyFor derives the group key for an offer.
func KeyFor(o Offer) GroupKey {
	if o.ProductID != "" {
		return GroupKey{Kind: GroupKeyByID, Value: o.ProductID}
	}
	return GroupKey{Kind: GroupKeyByName, Value: NormalizeName(o.ProductName)}
}

// supplierKey identifies a supplier's basket within a quotation version.
// Supplier name is the de-facto key in legacy data; a stable id wins when
// present.
func supplierKey(o Offer) string {
	if o.SupplierID != "" {
		return "id:" + o.SupplierID
	}
	return "name:" + NormalizeName(o.SupplierName)
}

// NormalizeName lowers and collapses whitespace so that cosmetic differences
// do not split a product or supplier into separate groups.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// ItemRef identifies one offer row inside a quotation, the way approval and
// renegotiation payloads reference items.
type ItemRef struct {
	ProductID    string `json:"productId,omitempty"`
	ProductName  string `json:"productName,omitempty"`
	SupplierName string `json:"supplierName"`
}

// Matches reports whether the reference resolves to the given offer.
// Product id is authoritative when both sides carry one; otherwise the
// normalized product name is compared. Supplier is always matched by
// normalized name.
func (r ItemRef) Matches(o Offer) bool {
	if NormalizeName(r.SupplierName) != NormalizeName(o.SupplierName) {
		return false
	}
	if r.ProductID != "" && o.ProductID != "" {
		return r.ProductID == o.ProductID
	}
	return NormalizeName(r.ProductName) == NormalizeName(o.ProductName)
}

func (r ItemRef) String() string {
	product := r.ProductID
	if product == "" {
		product = r.ProductName
	}
	return fmt.Sprintf("%s/%s", product, r.SupplierName)
}

// RefFor builds the canonical reference for an offer.
func RefFor(o Offer) ItemRef {
	return ItemRef{ProductID: o.ProductID, ProductName: o.ProductName, SupplierName: o.SupplierName}
}

// Clock is the time source used when delivery terms carry literal dates.
// Tests pin it; production uses time.Now via the zero value.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
