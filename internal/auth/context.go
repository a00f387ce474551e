package auth

import (
	"context"
	"strings"

	"github.com/comprasys/cotacao-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      string
	DisplayName string
	Email       string
	Roles       []domain.UserRoleType
}

type contextKey string

const userContextKey contextKey = "userContext"
const buyerFilterKey contextKey = "buyerFilter"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role domain.UserRoleType) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRoleType) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsAdmin checks if user is an administrator
func (u *UserContext) IsAdmin() bool {
	return u.HasRole(domain.RoleAdmin)
}

// IsApprover reports whether the user can act on the approval side of the
// pipeline (forward, approve, reject, request renegotiation).
func (u *UserContext) IsApprover() bool {
	return u.HasAnyRole(domain.RoleSupervisor, domain.RoleManager, domain.RoleAdmin)
}

// GetBuyerFilter returns the buyer ID to filter queries by.
// Returns nil for approvers and admins, who see the whole pipeline; plain
// buyers only see their own quotations.
func (u *UserContext) GetBuyerFilter() *string {
	if u.IsApprover() {
		return nil
	}
	id := u.UserID
	return &id
}

// GetDisplayNameInitials returns initials from the display name (e.g., "John Doe" -> "JD")
func (u *UserContext) GetDisplayNameInitials() string {
	if u.DisplayName == "" {
		return ""
	}
	parts := strings.Fields(u.DisplayName)
	initials := ""
	for _, part := range parts {
		if len(part) > 0 {
			initials += strings.ToUpper(string(part[0]))
		}
	}
	return initials
}

// RolesAsStrings returns roles as a slice of strings
func (u *UserContext) RolesAsStrings() []string {
	result := make([]string, len(u.Roles))
	for i, role := range u.Roles {
		result[i] = string(role)
	}
	return result
}

// BuyerFilter represents the effective buyer filter for queries.
// Middleware sets it from the user context and query parameters.
type BuyerFilter struct {
	// BuyerID is the buyer to filter by (nil means no filter / whole pipeline)
	BuyerID *string
	// RequestedByApprover indicates an approver explicitly narrowed to one buyer
	RequestedByApprover bool
}

// WithBuyerFilter adds buyer filter to the context
func WithBuyerFilter(ctx context.Context, filter *BuyerFilter) context.Context {
	return context.WithValue(ctx, buyerFilterKey, filter)
}

// BuyerFilterFromContext extracts buyer filter from the context
func BuyerFilterFromContext(ctx context.Context) (*BuyerFilter, bool) {
	filter, ok := ctx.Value(buyerFilterKey).(*BuyerFilter)
	return filter, ok
}

// GetEffectiveBuyerFilter returns the buyer ID to filter queries by.
// Repositories use this to scope list and read queries.
// Returns nil if no filtering should be applied.
func GetEffectiveBuyerFilter(ctx context.Context) *string {
	if filter, ok := BuyerFilterFromContext(ctx); ok && filter != nil {
		return filter.BuyerID
	}

	if userCtx, ok := FromContext(ctx); ok {
		return userCtx.GetBuyerFilter()
	}

	return nil
}
