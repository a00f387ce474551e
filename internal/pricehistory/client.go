// Package pricehistory provides read-only connectivity to the MS SQL Server
// ERP mirror that holds historical purchase prices. It supplies the
// last-approved and first-quoted baselines used by the savings evaluation.
package pricehistory

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	_ "github.com/microsoft/go-mssqldb" // MS SQL Server driver
	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/config"
)

const (
	defaultMaxRetries     = 3
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 10 * time.Second
	defaultBackoffFactor  = 2.0

	defaultHealthCheckTimeout = 5 * time.Second
)

// Client provides read-only access to the ERP purchase history. It manages
// connection pooling and caches the per-product last approved price so the
// hot path never waits on the mirror.
type Client struct {
	db           *sql.DB
	config       *config.PriceHistoryConfig
	logger       *zap.Logger
	queryTimeout time.Duration

	mu    sync.RWMutex
	cache map[string]float64
}

// HealthStatus represents the health check result for the ERP mirror
// connection.
type HealthStatus struct {
	Status     string        `json:"status"`
	Latency    time.Duration `json:"latency_ms"`
	Error      string        `json:"error,omitempty"`
	MaxOpen    int           `json:"max_open_connections"`
	Open       int           `json:"open_connections"`
	InUse      int           `json:"in_use"`
	Idle       int           `json:"idle"`
	WaitCount  int64         `json:"wait_count"`
	WaitTimeMs int64         `json:"wait_time_ms"`
}

// NewClient creates a new price history client with the given configuration.
// Returns nil if the mirror is not enabled or not configured; a nil client
// is safe to call and simply reports no baselines.
func NewClient(cfg *config.PriceHistoryConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("Price history connection disabled")
		return nil, nil
	}

	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("Price history enabled but missing credentials, skipping connection",
			zap.Bool("url_present", cfg.URL != ""),
			zap.Bool("user_present", cfg.User != ""),
			zap.Bool("password_present", cfg.Password != ""),
		)
		return nil, nil
	}

	logger.Info("Initializing price history connection",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
		zap.Int("conn_max_lifetime_seconds", cfg.ConnMaxLifetime),
		zap.Int("query_timeout_seconds", cfg.QueryTimeout),
	)

	connStr, err := buildConnectionString(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	var db *sql.DB
	backoff := defaultInitialBackoff

	for attempt := 1; attempt <= defaultMaxRetries; attempt++ {
		logger.Info("Attempting price history connection",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", defaultMaxRetries),
		)

		db, err = sql.Open("sqlserver", connStr)
		if err != nil {
			logger.Warn("Failed to open price history connection",
				zap.Error(err),
				zap.Int("attempt", attempt),
			)
			if attempt < defaultMaxRetries {
				time.Sleep(backoff)
				backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
			}
			continue
		}

		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

		ctx, cancel := context.WithTimeout(context.Background(), defaultHealthCheckTimeout)
		err = db.PingContext(ctx)
		cancel()

		if err != nil {
			logger.Warn("Price history ping failed",
				zap.Error(err),
				zap.Int("attempt", attempt),
			)
			_ = db.Close()
			if attempt < defaultMaxRetries {
				time.Sleep(backoff)
				backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
			}
			continue
		}

		logger.Info("Price history connection established successfully",
			zap.Int("attempts_taken", attempt),
		)

		return &Client{
			db:           db,
			config:       cfg,
			logger:       logger,
			queryTimeout: cfg.QueryTimeoutDuration(),
			cache:        make(map[string]float64),
		}, nil
	}

	return nil, fmt.Errorf("failed to connect to price history after %d attempts: %w", defaultMaxRetries, err)
}

// buildConnectionString constructs a SQL Server connection string from the
// config. URL format expected: host:port/database or host:port.
func buildConnectionString(cfg *config.PriceHistoryConfig) (string, error) {
	urlParts := strings.SplitN(cfg.URL, "/", 2)
	hostPort := urlParts[0]
	database := ""
	if len(urlParts) > 1 {
		database = urlParts[1]
	}

	hostParts := strings.SplitN(hostPort, ":", 2)
	host := hostParts[0]
	port := "1433"
	if len(hostParts) > 1 {
		port = hostParts[1]
	}

	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", host, port),
		RawQuery: query.Encode(),
	}

	return u.String(), nil
}

// Close gracefully closes the price history connection. Should be called
// during application shutdown.
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}

	c.logger.Info("Closing price history connection")

	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close price history connection", zap.Error(err))
		return fmt.Errorf("failed to close price history connection: %w", err)
	}

	c.logger.Info("Price history connection closed successfully")
	return nil
}

// HealthCheck performs a health check on the mirror connection. Returns
// detailed status including connection pool statistics.
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	if c == nil || c.db == nil {
		return &HealthStatus{
			Status: "disabled",
		}
	}

	start := time.Now()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultHealthCheckTimeout)
		defer cancel()
	}

	err := c.db.PingContext(ctx)
	latency := time.Since(start)

	stats := c.db.Stats()
	status := &HealthStatus{
		Latency:    latency,
		MaxOpen:    stats.MaxOpenConnections,
		Open:       stats.OpenConnections,
		InUse:      stats.InUse,
		Idle:       stats.Idle,
		WaitCount:  stats.WaitCount,
		WaitTimeMs: stats.WaitDuration.Milliseconds(),
	}

	if err != nil {
		c.logger.Warn("Price history health check failed",
			zap.Error(err),
			zap.Duration("latency", latency),
		)
		status.Status = "unhealthy"
		status.Error = err.Error()
	} else {
		status.Status = "healthy"
	}

	return status
}

// IsEnabled returns true if the client is initialized and ready for queries.
func (c *Client) IsEnabled() bool {
	return c != nil && c.db != nil
}

// LastApprovedPrice returns the most recent approved unit price for a
// product, or nil when the mirror has no record. Served from the sync
// cache when warm, falling back to a direct query on a cold entry.
func (c *Client) LastApprovedPrice(ctx context.Context, productID string) (*float64, error) {
	if c == nil || c.db == nil {
		return nil, nil
	}

	c.mu.RLock()
	if price, ok := c.cache[productID]; ok {
		c.mu.RUnlock()
		return &price, nil
	}
	c.mu.RUnlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	const query = `
		SELECT TOP 1 unit_price
		FROM dbo.purchase_approved_prices
		WHERE product_id = @p1
		ORDER BY approved_at DESC`

	var price float64
	err := c.db.QueryRowContext(ctx, query, sql.Named("p1", productID)).Scan(&price)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last approved price: %w", err)
	}

	c.mu.Lock()
	c.cache[productID] = price
	c.mu.Unlock()

	return &price, nil
}

// RefreshCache reloads the per-product price cache from the mirror. Called
// by the scheduled sync job; the whole map is swapped so readers never see
// a partial refresh.
func (c *Client) RefreshCache(ctx context.Context) (int, error) {
	if c == nil || c.db == nil {
		return 0, nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	const query = `
		SELECT p.product_id, p.unit_price
		FROM dbo.purchase_approved_prices p
		INNER JOIN (
			SELECT product_id, MAX(approved_at) AS latest
			FROM dbo.purchase_approved_prices
			GROUP BY product_id
		) latest ON latest.product_id = p.product_id AND latest.latest = p.approved_at`

	start := time.Now()
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to query approved prices: %w", err)
	}
	defer rows.Close()

	fresh := make(map[string]float64)
	for rows.Next() {
		var productID string
		var price float64
		if err := rows.Scan(&productID, &price); err != nil {
			return 0, fmt.Errorf("failed to scan approved price row: %w", err)
		}
		fresh[productID] = price
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating approved price rows: %w", err)
	}

	c.mu.Lock()
	c.cache = fresh
	c.mu.Unlock()

	c.logger.Info("Price history cache refreshed",
		zap.Int("products", len(fresh)),
		zap.Duration("duration", time.Since(start)),
	)

	return len(fresh), nil
}
