package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/auth"
)

// AuditConfig holds configuration for the mutation log middleware
type AuditConfig struct {
	// SkipPaths contains paths that should not be logged
	SkipPaths []string
	// SkipMethods contains HTTP methods that should not be logged
	SkipMethods []string
}

// DefaultAuditConfig returns default audit configuration
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		SkipPaths: []string{
			"/health",
			"/health/db",
			"/health/ready",
			"/swagger",
			"/api/v1/auth/login",
		},
		SkipMethods: []string{
			http.MethodGet,
			http.MethodOptions,
			http.MethodHead,
		},
	}
}

// AuditMiddleware logs every successful mutating request with the acting
// user. The per-quotation event trail is written by the services; this is
// the request-level companion covering all write endpoints.
type AuditMiddleware struct {
	config *AuditConfig
	logger *zap.Logger
}

// NewAuditMiddleware creates a new audit middleware
func NewAuditMiddleware(config *AuditConfig, logger *zap.Logger) *AuditMiddleware {
	if config == nil {
		config = DefaultAuditConfig()
	}
	return &AuditMiddleware{
		config: config,
		logger: logger,
	}
}

// Audit returns middleware that logs successful mutations
func (m *AuditMiddleware) Audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.shouldAudit(r) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rw := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		// Only successful mutations are interesting here; failures are
		// already covered by the request logging middleware
		if rw.statusCode < 200 || rw.statusCode >= 300 {
			return
		}

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.statusCode),
			zap.Duration("duration", time.Since(start)),
		}

		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				fields = append(fields, zap.String("route", pattern))
			}
			if id := routeCtx.URLParam("id"); id != "" {
				fields = append(fields, zap.String("resourceID", id))
			}
		}

		if userCtx, ok := auth.FromContext(r.Context()); ok {
			fields = append(fields,
				zap.String("actorID", userCtx.UserID),
				zap.String("actorName", userCtx.DisplayName),
			)
		}

		m.logger.Info("mutation", fields...)
	})
}

// shouldAudit determines if a request should be logged
func (m *AuditMiddleware) shouldAudit(r *http.Request) bool {
	for _, method := range m.config.SkipMethods {
		if r.Method == method {
			return false
		}
	}

	path := r.URL.Path
	for _, skipPath := range m.config.SkipPaths {
		if strings.HasPrefix(path, skipPath) {
			return false
		}
	}

	return true
}

// responseCapture wraps ResponseWriter to capture the status code
type responseCapture struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseCapture) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
