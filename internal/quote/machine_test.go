package quote_test

import (
	"testing"

	"github.com/comprasys/cotacao-api/internal/quote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awaitingSnapshot(offers []quote.Offer) quote.Snapshot {
	return quote.Snapshot{
		Status:   quote.StatusAwaitingApproval,
		Items:    offers,
		Criteria: quote.BuildCriteria(offers),
	}
}

func TestTransition_SubmitRequiresPricedItems(t *testing.T) {
	snap := quote.Snapshot{
		Status: quote.StatusPending,
		Items: []quote.Offer{
			{ProductID: "P1", SupplierName: "A", UnitPrice: 10, Quantity: 1},
			{ProductID: "P2", SupplierName: "A", UnitPrice: 0, Quantity: 1},
		},
	}

	_, err := quote.Transition(snap, quote.EventSubmit, quote.Payload{})
	var consistencyErr *quote.ConsistencyError
	require.ErrorAs(t, err, &consistencyErr)
	assert.Equal(t, "P2", consistencyErr.Ref.ProductID)
	// Guard failure never mutates the snapshot.
	assert.Equal(t, quote.StatusPending, snap.Status)
}

func TestTransition_SubmitSnapshotsVersion(t *testing.T) {
	snap := quote.Snapshot{
		Status: quote.StatusPending,
		Items:  []quote.Offer{{ProductID: "P1", SupplierName: "A", UnitPrice: 10, Quantity: 1}},
	}
	res, err := quote.Transition(snap, quote.EventSubmit, quote.Payload{})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, quote.StatusInAnalysis, res.NextState)
	assert.Contains(t, res.SideEffects, quote.SideEffectSnapshotVersion)
}

func TestTransition_ForwardToManager(t *testing.T) {
	snap := quote.Snapshot{Status: quote.StatusInAnalysis}
	res, err := quote.Transition(snap, quote.EventForward, quote.Payload{})
	require.NoError(t, err)
	assert.Equal(t, quote.StatusAwaitingApproval, res.NextState)
	assert.Empty(t, res.SideEffects)
}

func TestTransition_ApproveBestPriceResolvesItems(t *testing.T) {
	snap := awaitingSnapshot(scenarioOffers())
	res, err := quote.Transition(snap, quote.EventApprove, quote.Payload{
		ApprovalType: quote.ApprovalBestPrice,
		Reason:       "melhor preco geral",
	})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, quote.StatusApproved, res.NextState)
	require.Len(t, res.ApprovedItems, 1)
	assert.Equal(t, "Fornecedor Y", res.ApprovedItems[0].SupplierName)
	assert.Contains(t, res.SideEffects, quote.SideEffectCreateApprovalRecord)
}

func TestTransition_ApproveEmptyQuotationFails(t *testing.T) {
	snap := awaitingSnapshot(nil)
	_, err := quote.Transition(snap, quote.EventApprove, quote.Payload{
		ApprovalType: quote.ApprovalBestPrice,
		Reason:       "ok",
	})
	var validationErr *quote.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "approvedItems", validationErr.Field)
	assert.Equal(t, "no items resolved for approval", validationErr.Message)
}

func TestTransition_ApproveRequiresReason(t *testing.T) {
	snap := awaitingSnapshot(scenarioOffers())
	_, err := quote.Transition(snap, quote.EventApprove, quote.Payload{
		ApprovalType: quote.ApprovalBestPrice,
		Reason:       "   ",
	})
	var validationErr *quote.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "reason", validationErr.Field)
}

func TestTransition_ApproveManualUnresolvableRef(t *testing.T) {
	snap := awaitingSnapshot(scenarioOffers())
	_, err := quote.Transition(snap, quote.EventApprove, quote.Payload{
		ApprovalType: quote.ApprovalManual,
		Reason:       "escolha manual",
		Selection: quote.SelectionState{
			Manual: []quote.ItemRef{{ProductID: "NOPE", SupplierName: "Fornecedor X"}},
		},
	})
	var consistencyErr *quote.ConsistencyError
	require.ErrorAs(t, err, &consistencyErr)
}

func TestTransition_ApproveCustomSelectionUnions(t *testing.T) {
	snap := awaitingSnapshot(scenarioOffers())
	res, err := quote.Transition(snap, quote.EventApprove, quote.Payload{
		ApprovalType: quote.ApprovalCustomSelection,
		Reason:       "misto",
		Selection: quote.SelectionState{
			PerCriterion: map[quote.ApprovalType][]quote.ItemRef{
				quote.ApprovalBestPrice:    {{ProductID: "P1", SupplierName: "Fornecedor Y"}},
				quote.ApprovalBestDelivery: {{ProductID: "P1", SupplierName: "Fornecedor X"}},
			},
		},
	})
	require.NoError(t, err)
	assert.Len(t, res.ApprovedItems, 2)
}

func TestTransition_RejectRequiresReason(t *testing.T) {
	snap := awaitingSnapshot(scenarioOffers())

	_, err := quote.Transition(snap, quote.EventReject, quote.Payload{})
	var validationErr *quote.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "reason", validationErr.Field)

	res, err := quote.Transition(snap, quote.EventReject, quote.Payload{Reason: "fora do orcamento"})
	require.NoError(t, err)
	assert.Equal(t, quote.StatusRejected, res.NextState)
	assert.Contains(t, res.SideEffects, quote.SideEffectCreateRejectionRecord)
}

func TestTransition_RenegotiationGuards(t *testing.T) {
	snap := awaitingSnapshot(scenarioOffers())

	_, err := quote.Transition(snap, quote.EventRequestRenegotiation, quote.Payload{
		Justification: "precos acima do historico",
	})
	var validationErr *quote.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "selectedItems", validationErr.Field)

	_, err = quote.Transition(snap, quote.EventRequestRenegotiation, quote.Payload{
		SelectedItems: []quote.ItemRef{{ProductID: "P1", SupplierName: "Fornecedor X"}},
	})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "justification", validationErr.Field)

	res, err := quote.Transition(snap, quote.EventRequestRenegotiation, quote.Payload{
		SelectedItems: []quote.ItemRef{{ProductID: "P1", SupplierName: "Fornecedor X"}},
		Justification: "precos acima do historico",
	})
	require.NoError(t, err)
	assert.Equal(t, quote.StatusRenegotiation, res.NextState)
	assert.Len(t, res.SelectedItems, 1)
	assert.Contains(t, res.SideEffects, quote.SideEffectCreateRenegotiationRecord)
	assert.Contains(t, res.SideEffects, quote.SideEffectNewVersion)
}

func TestTransition_RenegotiationAlsoAllowedFromAnalysis(t *testing.T) {
	offers := scenarioOffers()
	snap := quote.Snapshot{Status: quote.StatusInAnalysis, Items: offers, Criteria: quote.BuildCriteria(offers)}
	res, err := quote.Transition(snap, quote.EventRequestRenegotiation, quote.Payload{
		SelectedItems: []quote.ItemRef{{ProductID: "P1", SupplierName: "Fornecedor Y"}},
		Justification: "renegociar volume",
	})
	require.NoError(t, err)
	assert.True(t, res.OK)
}

func TestTransition_ResubmitReentersPipeline(t *testing.T) {
	offers := scenarioOffers()
	snap := quote.Snapshot{Status: quote.StatusRenegotiation, Items: offers}

	_, err := quote.Transition(snap, quote.EventResubmit, quote.Payload{})
	var validationErr *quote.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "updatedItems", validationErr.Field)

	res, err := quote.Transition(snap, quote.EventResubmit, quote.Payload{UpdatedItems: offers})
	require.NoError(t, err)
	assert.Equal(t, quote.StatusPending, res.NextState)
	assert.Contains(t, res.SideEffects, quote.SideEffectNewVersion)
	assert.Contains(t, res.SideEffects, quote.SideEffectCarryRenegotiationFlags)
}

func TestTransition_InvalidFromState(t *testing.T) {
	for _, terminal := range []quote.Status{quote.StatusApproved, quote.StatusRejected} {
		snap := quote.Snapshot{Status: terminal}
		for _, event := range []quote.Event{quote.EventSubmit, quote.EventForward, quote.EventApprove, quote.EventReject, quote.EventRequestRenegotiation, quote.EventResubmit} {
			_, err := quote.Transition(snap, event, quote.Payload{Reason: "x", Justification: "x"})
			assert.Error(t, err, "event %s from %s", event, terminal)
		}
	}
}

func TestStatus_Enums(t *testing.T) {
	assert.True(t, quote.StatusPending.IsValid())
	assert.True(t, quote.StatusRenegotiation.IsValid())
	assert.False(t, quote.Status("draft").IsValid())
	assert.True(t, quote.StatusApproved.IsTerminal())
	assert.True(t, quote.StatusRejected.IsTerminal())
	assert.False(t, quote.StatusRenegotiation.IsTerminal())
	assert.True(t, quote.ApprovalBestPrice.IsValid())
	assert.False(t, quote.ApprovalType("auto").IsValid())
}
