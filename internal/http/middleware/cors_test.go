package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/config"
	"github.com/comprasys/cotacao-api/internal/http/middleware"
)

func corsTestConfig() *config.CORSConfig {
	return &config.CORSConfig{
		AllowedOrigins:   []string{"https://cotacao.comprasys.io"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func serveCORS(cfg *config.CORSConfig, environment string, req *http.Request) *httptest.ResponseRecorder {
	handler := middleware.CORS(cfg, environment, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORS_AllowedOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotations", nil)
	req.Header.Set("Origin", "https://cotacao.comprasys.io")

	rec := serveCORS(corsTestConfig(), "production", req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://cotacao.comprasys.io", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotations", nil)
	req.Header.Set("Origin", "https://evil.example.com")

	rec := serveCORS(corsTestConfig(), "production", req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/quotations", nil)
	req.Header.Set("Origin", "https://cotacao.comprasys.io")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")

	rec := serveCORS(corsTestConfig(), "production", req)

	assert.Equal(t, "https://cotacao.comprasys.io", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Equal(t, "300", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_WildcardReflectsOrigin(t *testing.T) {
	cfg := corsTestConfig()
	cfg.AllowedOrigins = []string{"*"}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotations", nil)
	req.Header.Set("Origin", "https://any.example.com")

	rec := serveCORS(cfg, "development", req)

	assert.Equal(t, "https://any.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_NoOriginsAllowsAllInDevelopment(t *testing.T) {
	cfg := corsTestConfig()
	cfg.AllowedOrigins = nil

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotations", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	rec := serveCORS(cfg, "development", req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_NoOriginsDeniesAllInProduction(t *testing.T) {
	cfg := corsTestConfig()
	cfg.AllowedOrigins = nil

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotations", nil)
	req.Header.Set("Origin", "https://cotacao.comprasys.io")

	rec := serveCORS(cfg, "production", req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_NonCORSRequestUntouched(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	rec := serveCORS(corsTestConfig(), "production", req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
