package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/auth"
)

// BuyerFilterMiddleware handles per-buyer data isolation.
// Plain buyers only see their own quotations; approvers and admins see
// the whole pipeline and may optionally narrow to a single buyer.
type BuyerFilterMiddleware struct {
	logger *zap.Logger
}

// NewBuyerFilterMiddleware creates a new buyer filter middleware
func NewBuyerFilterMiddleware(logger *zap.Logger) *BuyerFilterMiddleware {
	return &BuyerFilterMiddleware{
		logger: logger,
	}
}

// Filter sets the effective buyer filter in the request context
// - Approvers and admins can optionally filter by ?buyer_id=<user>
// - Plain buyers are always filtered to their own quotations
// - If no filter is specified, approvers see all data
func (m *BuyerFilterMiddleware) Filter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := auth.FromContext(r.Context())
		if !ok {
			// No user context - authentication middleware should have
			// already rejected unauthenticated requests
			next.ServeHTTP(w, r)
			return
		}

		var filter *auth.BuyerFilter

		requestedBuyerID := r.URL.Query().Get("buyer_id")

		if requestedBuyerID != "" {
			if !userCtx.IsApprover() && requestedBuyerID != userCtx.UserID {
				m.logger.Warn("user attempted to access another buyer's quotations",
					zap.String("user_id", userCtx.UserID),
					zap.String("requested_buyer", requestedBuyerID),
				)
				http.Error(w, "Access denied: you cannot access quotations for this buyer", http.StatusForbidden)
				return
			}

			filter = &auth.BuyerFilter{
				BuyerID:             &requestedBuyerID,
				RequestedByApprover: userCtx.IsApprover(),
			}
		} else {
			// No explicit buyer requested: approvers see everything,
			// plain buyers are scoped to themselves
			filter = &auth.BuyerFilter{
				BuyerID: userCtx.GetBuyerFilter(),
			}
		}

		ctx := auth.WithBuyerFilter(r.Context(), filter)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
