package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/comprasys/cotacao-api/internal/auth"
	"github.com/comprasys/cotacao-api/internal/domain"
)

func TestWithUserContext_RoundTrip(t *testing.T) {
	userCtx := &auth.UserContext{
		UserID:      "user-1",
		DisplayName: "Maria Silva",
		Email:       "maria@example.com",
		Roles:       []domain.UserRoleType{domain.RoleBuyer},
	}

	ctx := auth.WithUserContext(context.Background(), userCtx)

	got, ok := auth.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, userCtx, got)
}

func TestFromContext_Missing(t *testing.T) {
	_, ok := auth.FromContext(context.Background())
	assert.False(t, ok)
}

func TestMustFromContext_Panics(t *testing.T) {
	assert.Panics(t, func() {
		auth.MustFromContext(context.Background())
	})
}

func TestUserContext_HasRole(t *testing.T) {
	userCtx := &auth.UserContext{
		Roles: []domain.UserRoleType{domain.RoleBuyer, domain.RoleSupervisor},
	}

	assert.True(t, userCtx.HasRole(domain.RoleBuyer))
	assert.True(t, userCtx.HasRole(domain.RoleSupervisor))
	assert.False(t, userCtx.HasRole(domain.RoleAdmin))
}

func TestUserContext_HasAnyRole(t *testing.T) {
	userCtx := &auth.UserContext{
		Roles: []domain.UserRoleType{domain.RoleBuyer},
	}

	assert.True(t, userCtx.HasAnyRole(domain.RoleAdmin, domain.RoleBuyer))
	assert.False(t, userCtx.HasAnyRole(domain.RoleAdmin, domain.RoleManager))
	assert.False(t, userCtx.HasAnyRole())
}

func TestUserContext_IsApprover(t *testing.T) {
	tests := []struct {
		name     string
		roles    []domain.UserRoleType
		expected bool
	}{
		{"buyer only", []domain.UserRoleType{domain.RoleBuyer}, false},
		{"supervisor", []domain.UserRoleType{domain.RoleSupervisor}, true},
		{"manager", []domain.UserRoleType{domain.RoleManager}, true},
		{"admin", []domain.UserRoleType{domain.RoleAdmin}, true},
		{"buyer and supervisor", []domain.UserRoleType{domain.RoleBuyer, domain.RoleSupervisor}, true},
		{"no roles", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userCtx := &auth.UserContext{Roles: tt.roles}
			assert.Equal(t, tt.expected, userCtx.IsApprover())
		})
	}
}

func TestUserContext_GetBuyerFilter(t *testing.T) {
	t.Run("buyer is scoped to own quotations", func(t *testing.T) {
		userCtx := &auth.UserContext{
			UserID: "buyer-7",
			Roles:  []domain.UserRoleType{domain.RoleBuyer},
		}
		filter := userCtx.GetBuyerFilter()
		assert.NotNil(t, filter)
		assert.Equal(t, "buyer-7", *filter)
	})

	t.Run("approver sees the whole pipeline", func(t *testing.T) {
		userCtx := &auth.UserContext{
			UserID: "supervisor-1",
			Roles:  []domain.UserRoleType{domain.RoleSupervisor},
		}
		assert.Nil(t, userCtx.GetBuyerFilter())
	})
}

func TestGetEffectiveBuyerFilter(t *testing.T) {
	t.Run("explicit filter wins over user context", func(t *testing.T) {
		buyerID := "buyer-42"
		ctx := auth.WithUserContext(context.Background(), &auth.UserContext{
			UserID: "supervisor-1",
			Roles:  []domain.UserRoleType{domain.RoleSupervisor},
		})
		ctx = auth.WithBuyerFilter(ctx, &auth.BuyerFilter{
			BuyerID:             &buyerID,
			RequestedByApprover: true,
		})

		got := auth.GetEffectiveBuyerFilter(ctx)
		assert.NotNil(t, got)
		assert.Equal(t, "buyer-42", *got)
	})

	t.Run("falls back to user context", func(t *testing.T) {
		ctx := auth.WithUserContext(context.Background(), &auth.UserContext{
			UserID: "buyer-7",
			Roles:  []domain.UserRoleType{domain.RoleBuyer},
		})

		got := auth.GetEffectiveBuyerFilter(ctx)
		assert.NotNil(t, got)
		assert.Equal(t, "buyer-7", *got)
	})

	t.Run("empty context means no filter", func(t *testing.T) {
		assert.Nil(t, auth.GetEffectiveBuyerFilter(context.Background()))
	})
}

func TestUserContext_GetDisplayNameInitials(t *testing.T) {
	tests := []struct {
		displayName string
		expected    string
	}{
		{"Maria Silva", "MS"},
		{"joao pereira dos santos", "JPDS"},
		{"Ana", "A"},
		{"", ""},
	}

	for _, tt := range tests {
		userCtx := &auth.UserContext{DisplayName: tt.displayName}
		assert.Equal(t, tt.expected, userCtx.GetDisplayNameInitials())
	}
}

func TestUserContext_RolesAsStrings(t *testing.T) {
	userCtx := &auth.UserContext{
		Roles: []domain.UserRoleType{domain.RoleBuyer, domain.RoleAdmin},
	}
	assert.Equal(t, []string{"buyer", "admin"}, userCtx.RolesAsStrings())
}
