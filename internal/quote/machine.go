package quote

import "strings"

// Status represents a quotation's lifecycle state within one version.
type Status string

const (
	StatusPending          Status = "pending"
	StatusInAnalysis       Status = "in_analysis"
	StatusAwaitingApproval Status = "awaiting_approval"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusRenegotiation    Status = "renegotiation"
)

// IsValid checks if the Status is a valid enum value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInAnalysis, StatusAwaitingApproval, StatusApproved, StatusRejected, StatusRenegotiation:
		return true
	}
	return false
}

// IsTerminal reports whether the status closes the current version.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Event is a lifecycle transition request.
type Event string

const (
	EventSubmit               Event = "submit"
	EventForward              Event = "forward"
	EventApprove              Event = "approve"
	EventReject               Event = "reject"
	EventRequestRenegotiation Event = "request_renegotiation"
	EventResubmit             Event = "resubmit"
)

// SideEffect names an action the caller must persist atomically together
// with the status change. The state machine itself performs no I/O.
type SideEffect string

const (
	SideEffectSnapshotVersion          SideEffect = "snapshot_version"
	SideEffectCreateApprovalRecord     SideEffect = "create_approval_record"
	SideEffectCreateRejectionRecord    SideEffect = "create_rejection_record"
	SideEffectCreateRenegotiationRecord SideEffect = "create_renegotiation_record"
	SideEffectNewVersion               SideEffect = "new_version"
	SideEffectCarryRenegotiationFlags  SideEffect = "carry_renegotiation_flags"
)

// Snapshot is the in-memory view of a quotation version that a transition
// runs against. Criteria is only consulted when an approval type needs
// resolving; the machine never re-derives comparison data.
type Snapshot struct {
	Status   Status
	Items    []Offer
	Criteria *Comparison
}

// Payload carries the per-event input. Which fields are required depends on
// the event; guards validate them and name the missing field on failure.
type Payload struct {
	// Approve.
	ApprovalType  ApprovalType
	Selection     SelectionState
	Reason        string

	// Renegotiation.
	SelectedItems []ItemRef
	Justification string
	Observations  string

	// Resubmit.
	UpdatedItems []Offer

	ActorID   string
	ActorName string
}

// TransitionResult is the outcome of a pure transition. The caller persists
// NextState together with every listed side effect in one atomic write,
// guarded by an optimistic concurrency check.
type TransitionResult struct {
	OK            bool
	NextState     Status
	ApprovedItems []ItemRef
	SelectedItems []ItemRef
	SideEffects   []SideEffect
}

// Transition validates and executes a lifecycle event against a snapshot.
// A guard failure returns a ValidationError (or ConsistencyError for
// unresolvable item references) and leaves the result zero-valued; the
// quotation's status is never mutated here.
func Transition(snap Snapshot, event Event, p Payload) (TransitionResult, error) {
	switch event {
	case EventSubmit:
		return submit(snap)
	case EventForward:
		return forward(snap)
	case EventApprove:
		return approve(snap, p)
	case EventReject:
		return reject(snap, p)
	case EventRequestRenegotiation:
		return requestRenegotiation(snap, p)
	case EventResubmit:
		return resubmit(snap, p)
	default:
		return TransitionResult{}, newValidationError("event", "unknown event: "+string(event))
	}
}

func submit(snap Snapshot) (TransitionResult, error) {
	if snap.Status != StatusPending {
		return TransitionResult{}, invalidFrom(snap.Status, EventSubmit)
	}
	for _, item := range snap.Items {
		if item.UnitPrice <= 0 {
			return TransitionResult{}, &ConsistencyError{
				Ref:    RefFor(item),
				Detail: "item has no quoted price and cannot be submitted",
			}
		}
	}
	return TransitionResult{
		OK:          true,
		NextState:   StatusInAnalysis,
		SideEffects: []SideEffect{SideEffectSnapshotVersion},
	}, nil
}

func forward(snap Snapshot) (TransitionResult, error) {
	if snap.Status != StatusInAnalysis {
		return TransitionResult{}, invalidFrom(snap.Status, EventForward)
	}
	return TransitionResult{OK: true, NextState: StatusAwaitingApproval}, nil
}

func approve(snap Snapshot, p Payload) (TransitionResult, error) {
	if snap.Status != StatusAwaitingApproval {
		return TransitionResult{}, invalidFrom(snap.Status, EventApprove)
	}
	if strings.TrimSpace(p.Reason) == "" {
		return TransitionResult{}, newValidationError("reason", "reason required")
	}

	// Resolution runs before the non-empty guard: a best-* approval on a
	// quotation with product groups must succeed even when the user picked
	// nothing by hand.
	approved, err := ResolveApprovedItems(p.ApprovalType, p.Selection, snap.Criteria, snap.Items)
	if err != nil {
		return TransitionResult{}, err
	}
	if len(approved) == 0 {
		return TransitionResult{}, newValidationError("approvedItems", "no items resolved for approval")
	}

	return TransitionResult{
		OK:            true,
		NextState:     StatusApproved,
		ApprovedItems: approved,
		SideEffects:   []SideEffect{SideEffectCreateApprovalRecord},
	}, nil
}

func reject(snap Snapshot, p Payload) (TransitionResult, error) {
	if snap.Status != StatusAwaitingApproval {
		return TransitionResult{}, invalidFrom(snap.Status, EventReject)
	}
	if strings.TrimSpace(p.Reason) == "" {
		return TransitionResult{}, newValidationError("reason", "reason required")
	}
	return TransitionResult{
		OK:          true,
		NextState:   StatusRejected,
		SideEffects: []SideEffect{SideEffectCreateRejectionRecord},
	}, nil
}

func requestRenegotiation(snap Snapshot, p Payload) (TransitionResult, error) {
	if snap.Status != StatusInAnalysis && snap.Status != StatusAwaitingApproval {
		return TransitionResult{}, invalidFrom(snap.Status, EventRequestRenegotiation)
	}
	if len(p.SelectedItems) == 0 {
		return TransitionResult{}, newValidationError("selectedItems", "at least one item must be selected for renegotiation")
	}
	if strings.TrimSpace(p.Justification) == "" {
		return TransitionResult{}, newValidationError("justification", "justification required")
	}
	selected, err := resolveExplicit(p.SelectedItems, snap.Items)
	if err != nil {
		return TransitionResult{}, err
	}

	effects := []SideEffect{SideEffectCreateRenegotiationRecord, SideEffectNewVersion}
	return TransitionResult{
		OK:            true,
		NextState:     StatusRenegotiation,
		SelectedItems: selected,
		SideEffects:   effects,
	}, nil
}

func resubmit(snap Snapshot, p Payload) (TransitionResult, error) {
	if snap.Status != StatusRenegotiation {
		return TransitionResult{}, invalidFrom(snap.Status, EventResubmit)
	}
	if len(p.UpdatedItems) == 0 {
		return TransitionResult{}, newValidationError("updatedItems", "updated items required to resubmit")
	}
	// Flagged items carry forward as informational markers only; the new
	// version's editable set is the full previous item set.
	return TransitionResult{
		OK:          true,
		NextState:   StatusPending,
		SideEffects: []SideEffect{SideEffectNewVersion, SideEffectCarryRenegotiationFlags},
	}, nil
}

func invalidFrom(s Status, e Event) *ValidationError {
	return newValidationError("status", "event "+string(e)+" not allowed from status "+string(s))
}
