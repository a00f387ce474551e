package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/comprasys/cotacao-api/internal/auth"
	"github.com/comprasys/cotacao-api/internal/domain"
	"github.com/comprasys/cotacao-api/internal/http/middleware"
)

func serveAudit(t *testing.T, method, target string, status int, userCtx *auth.UserContext) []observer.LoggedEntry {
	t.Helper()

	core, logs := observer.New(zap.InfoLevel)
	m := middleware.NewAuditMiddleware(nil, zap.New(core))

	handler := m.Audit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	req := httptest.NewRequest(method, target, nil)
	if userCtx != nil {
		req = req.WithContext(auth.WithUserContext(req.Context(), userCtx))
	}

	handler.ServeHTTP(httptest.NewRecorder(), req)
	return logs.All()
}

func TestAudit_LogsSuccessfulMutation(t *testing.T) {
	entries := serveAudit(t, http.MethodPost, "/api/v1/quotations", http.StatusCreated, &auth.UserContext{
		UserID:      "buyer-3",
		DisplayName: "Ana Souza",
		Roles:       []domain.UserRoleType{domain.RoleBuyer},
	})

	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "mutation", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, http.MethodPost, fields["method"])
	assert.Equal(t, "/api/v1/quotations", fields["path"])
	assert.Equal(t, int64(http.StatusCreated), fields["status"])
	assert.Equal(t, "buyer-3", fields["actorID"])
	assert.Equal(t, "Ana Souza", fields["actorName"])
}

func TestAudit_SkipsReads(t *testing.T) {
	entries := serveAudit(t, http.MethodGet, "/api/v1/quotations", http.StatusOK, nil)
	assert.Empty(t, entries)
}

func TestAudit_SkipsFailedMutations(t *testing.T) {
	entries := serveAudit(t, http.MethodPost, "/api/v1/quotations", http.StatusUnprocessableEntity, nil)
	assert.Empty(t, entries)
}

func TestAudit_SkipsLogin(t *testing.T) {
	entries := serveAudit(t, http.MethodPost, "/api/v1/auth/login", http.StatusOK, nil)
	assert.Empty(t, entries)
}

func TestAudit_CustomConfig(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := middleware.NewAuditMiddleware(&middleware.AuditConfig{
		SkipPaths: []string{"/internal"},
	}, zap.New(core))

	handler := m.Audit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodDelete, "/internal/cleanup", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Empty(t, logs.All())

	// with no skipped methods configured, even GET is logged
	req = httptest.NewRequest(http.MethodGet, "/api/v1/quotations", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Len(t, logs.All(), 1)
}
