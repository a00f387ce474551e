package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/auth"
	"github.com/comprasys/cotacao-api/internal/config"
	"github.com/comprasys/cotacao-api/internal/domain"
)

func testMiddleware(t *testing.T) *auth.Middleware {
	t.Helper()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-for-signing",
			Issuer:          "comprasys-cotacao",
			TokenTTLMinutes: 60,
			TokenTTL:        time.Hour,
		},
		ApiKey: config.ApiKeyConfig{
			Value: "test-api-key",
		},
	}
	return auth.NewMiddleware(cfg, zap.NewNop())
}

func okHandler(captured **auth.UserContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userCtx, ok := auth.FromContext(r.Context()); ok && captured != nil {
			*captured = userCtx
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_ValidBearerToken(t *testing.T) {
	m := testMiddleware(t)

	token, _, err := m.TokenManager().IssueToken(&domain.User{
		ID:          "user-1",
		Email:       "maria@example.com",
		DisplayName: "Maria Silva",
		Roles:       []string{"buyer"},
	})
	require.NoError(t, err)

	var captured *auth.UserContext
	req := httptest.NewRequest(http.MethodGet, "/quotations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	m.Authenticate(okHandler(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "user-1", captured.UserID)
	assert.Equal(t, []domain.UserRoleType{domain.RoleBuyer}, captured.Roles)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	m := testMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/quotations", nil)
	rec := httptest.NewRecorder()

	m.Authenticate(okHandler(nil)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	m := testMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/quotations", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()

	m.Authenticate(okHandler(nil)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	m := testMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/quotations", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()

	m.Authenticate(okHandler(nil)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_ValidAPIKey(t *testing.T) {
	m := testMiddleware(t)

	var captured *auth.UserContext
	req := httptest.NewRequest(http.MethodGet, "/quotations", nil)
	req.Header.Set("x-api-key", "test-api-key")
	rec := httptest.NewRecorder()

	m.Authenticate(okHandler(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "system", captured.UserID)
	assert.True(t, captured.IsAdmin())
}

func TestAuthenticate_InvalidAPIKey(t *testing.T) {
	m := testMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/quotations", nil)
	req.Header.Set("x-api-key", "wrong-key")
	rec := httptest.NewRecorder()

	m.Authenticate(okHandler(nil)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireApprover(t *testing.T) {
	m := testMiddleware(t)

	tests := []struct {
		name     string
		roles    []domain.UserRoleType
		expected int
	}{
		{"buyer denied", []domain.UserRoleType{domain.RoleBuyer}, http.StatusForbidden},
		{"supervisor allowed", []domain.UserRoleType{domain.RoleSupervisor}, http.StatusOK},
		{"manager allowed", []domain.UserRoleType{domain.RoleManager}, http.StatusOK},
		{"admin allowed", []domain.UserRoleType{domain.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/quotations/x/approve", nil)
			ctx := auth.WithUserContext(req.Context(), &auth.UserContext{
				UserID: "u", Roles: tt.roles,
			})
			rec := httptest.NewRecorder()

			m.RequireApprover(okHandler(nil)).ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestRequireApprover_NoUserContext(t *testing.T) {
	m := testMiddleware(t)

	req := httptest.NewRequest(http.MethodPost, "/quotations/x/approve", nil)
	rec := httptest.NewRecorder()

	m.RequireApprover(okHandler(nil)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	m := testMiddleware(t)

	t.Run("admin allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/audit/events", nil)
		ctx := auth.WithUserContext(req.Context(), &auth.UserContext{
			UserID: "u", Roles: []domain.UserRoleType{domain.RoleAdmin},
		})
		rec := httptest.NewRecorder()

		m.RequireAdmin(okHandler(nil)).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("manager denied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/audit/events", nil)
		ctx := auth.WithUserContext(req.Context(), &auth.UserContext{
			UserID: "u", Roles: []domain.UserRoleType{domain.RoleManager},
		})
		rec := httptest.NewRecorder()

		m.RequireAdmin(okHandler(nil)).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	m := testMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/quotations", nil)
	ctx := auth.WithUserContext(req.Context(), &auth.UserContext{
		UserID: "u", Roles: []domain.UserRoleType{domain.RoleBuyer},
	})
	rec := httptest.NewRecorder()

	m.RequireRole(domain.RoleBuyer, domain.RoleAdmin)(okHandler(nil)).ServeHTTP(rec, req.WithContext(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	m.RequireRole(domain.RoleManager)(okHandler(nil)).ServeHTTP(rec, req.WithContext(ctx))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
