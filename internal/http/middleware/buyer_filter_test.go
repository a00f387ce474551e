package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/auth"
	"github.com/comprasys/cotacao-api/internal/domain"
	"github.com/comprasys/cotacao-api/internal/http/middleware"
)

func buyerFilterRequest(t *testing.T, target string, userCtx *auth.UserContext) (*auth.BuyerFilter, int) {
	t.Helper()

	var captured *auth.BuyerFilter
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if filter, ok := auth.BuyerFilterFromContext(r.Context()); ok {
			captured = filter
		}
		w.WriteHeader(http.StatusOK)
	})

	m := middleware.NewBuyerFilterMiddleware(zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userCtx != nil {
		req = req.WithContext(auth.WithUserContext(req.Context(), userCtx))
	}
	rec := httptest.NewRecorder()

	m.Filter(next).ServeHTTP(rec, req)
	return captured, rec.Code
}

func TestBuyerFilter_PlainBuyerScopedToSelf(t *testing.T) {
	filter, code := buyerFilterRequest(t, "/quotations", &auth.UserContext{
		UserID: "buyer-7",
		Roles:  []domain.UserRoleType{domain.RoleBuyer},
	})

	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, filter)
	require.NotNil(t, filter.BuyerID)
	assert.Equal(t, "buyer-7", *filter.BuyerID)
}

func TestBuyerFilter_ApproverUnscoped(t *testing.T) {
	filter, code := buyerFilterRequest(t, "/quotations", &auth.UserContext{
		UserID: "supervisor-1",
		Roles:  []domain.UserRoleType{domain.RoleSupervisor},
	})

	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, filter)
	assert.Nil(t, filter.BuyerID)
}

func TestBuyerFilter_ApproverNarrowsToBuyer(t *testing.T) {
	filter, code := buyerFilterRequest(t, "/quotations?buyer_id=buyer-7", &auth.UserContext{
		UserID: "supervisor-1",
		Roles:  []domain.UserRoleType{domain.RoleSupervisor},
	})

	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, filter)
	require.NotNil(t, filter.BuyerID)
	assert.Equal(t, "buyer-7", *filter.BuyerID)
	assert.True(t, filter.RequestedByApprover)
}

func TestBuyerFilter_BuyerCannotRequestAnotherBuyer(t *testing.T) {
	_, code := buyerFilterRequest(t, "/quotations?buyer_id=buyer-8", &auth.UserContext{
		UserID: "buyer-7",
		Roles:  []domain.UserRoleType{domain.RoleBuyer},
	})

	assert.Equal(t, http.StatusForbidden, code)
}

func TestBuyerFilter_BuyerMayRequestSelf(t *testing.T) {
	filter, code := buyerFilterRequest(t, "/quotations?buyer_id=buyer-7", &auth.UserContext{
		UserID: "buyer-7",
		Roles:  []domain.UserRoleType{domain.RoleBuyer},
	})

	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, filter)
	require.NotNil(t, filter.BuyerID)
	assert.Equal(t, "buyer-7", *filter.BuyerID)
}

func TestBuyerFilter_NoUserContextPassesThrough(t *testing.T) {
	filter, code := buyerFilterRequest(t, "/quotations", nil)

	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, filter)
}
