package quote

// ApprovalType determines which items populate approvedItems before the
// approve guard runs.
type ApprovalType string

const (
	ApprovalManual          ApprovalType = "manual"
	ApprovalBestPrice       ApprovalType = "best_price"
	ApprovalBestDelivery    ApprovalType = "best_delivery"
	ApprovalBestPayment     ApprovalType = "best_payment"
	ApprovalCustomSelection ApprovalType = "custom_selection"
)

// IsValid checks if the ApprovalType is a valid enum value.
func (t ApprovalType) IsValid() bool {
	switch t {
	case ApprovalManual, ApprovalBestPrice, ApprovalBestDelivery, ApprovalBestPayment, ApprovalCustomSelection:
		return true
	}
	return false
}

// SelectionState is the explicit selection the user built in a comparative
// view. It is passed into and returned from the resolution step; there is
// no shared mutable selection anywhere.
type SelectionState struct {
	// Manual holds the explicitly picked items for ApprovalManual.
	Manual []ItemRef `json:"manual,omitempty"`

	// PerCriterion holds the per-criterion subsets marked in a comparative
	// view; ApprovalCustomSelection unions them.
	PerCriterion map[ApprovalType][]ItemRef `json:"perCriterion,omitempty"`
}

// ResolveApprovedItems expands an approval type into the concrete item
// references that the approve guard will validate. The three best-* types
// resolve against the current criteria selection for every product group;
// manual and custom selections come from the SelectionState and must
// resolve against the quotation's current items or a ConsistencyError is
// returned.
func ResolveApprovedItems(typ ApprovalType, sel SelectionState, cmp *Comparison, items []Offer) ([]ItemRef, error) {
	switch typ {
	case ApprovalManual:
		return resolveExplicit(sel.Manual, items)
	case ApprovalBestPrice:
		refs := make([]ItemRef, 0, len(cmp.Groups))
		for _, key := range cmp.Keys() {
			// Ties report every winner; the resolver takes the first in
			// deterministic supplier order.
			refs = append(refs, RefFor(cmp.Groups[key].BestPrice[0]))
		}
		return refs, nil
	case ApprovalBestDelivery:
		refs := make([]ItemRef, 0, len(cmp.Groups))
		for _, key := range cmp.Keys() {
			refs = append(refs, RefFor(cmp.Groups[key].BestDelivery))
		}
		return refs, nil
	case ApprovalBestPayment:
		refs := make([]ItemRef, 0, len(cmp.Groups))
		for _, key := range cmp.Keys() {
			refs = append(refs, RefFor(cmp.Groups[key].BestPayment))
		}
		return refs, nil
	case ApprovalCustomSelection:
		var union []ItemRef
		seen := make(map[string]bool)
		for _, criterion := range []ApprovalType{ApprovalBestPrice, ApprovalBestDelivery, ApprovalBestPayment, ApprovalManual} {
			for _, ref := range sel.PerCriterion[criterion] {
				if !seen[ref.String()] {
					seen[ref.String()] = true
					union = append(union, ref)
				}
			}
		}
		return resolveExplicit(union, items)
	default:
		return nil, newValidationError("approvalType", "invalid approval type: "+string(typ))
	}
}

// resolveExplicit checks every user-supplied reference against the current
// item set. An unresolvable reference is a ConsistencyError, never silently
// dropped.
func resolveExplicit(refs []ItemRef, items []Offer) ([]ItemRef, error) {
	resolved := make([]ItemRef, 0, len(refs))
	for _, ref := range refs {
		found := false
		for _, item := range items {
			if ref.Matches(item) {
				resolved = append(resolved, RefFor(item))
				found = true
				break
			}
		}
		if !found {
			return nil, &ConsistencyError{Ref: ref, Detail: "does not resolve against current items"}
		}
	}
	return resolved, nil
}
