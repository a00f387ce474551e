package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PriceSyncJobName is the name of the ERP price cache refresh job
const PriceSyncJobName = "price_history_sync"

// PriceCacheRefresher defines the interface for refreshing the per-product
// approved price cache from the ERP mirror. This interface allows the job to
// call the client without importing the pricehistory package directly.
type PriceCacheRefresher interface {
	// RefreshCache reloads the cache and returns the number of products loaded.
	RefreshCache(ctx context.Context) (int, error)
	// IsEnabled reports whether the underlying connection is available.
	IsEnabled() bool
}

// PriceSyncJob refreshes the last-approved price cache so new quotations
// get baselines without waiting on the mirror.
type PriceSyncJob struct {
	client  PriceCacheRefresher
	logger  *zap.Logger
	timeout time.Duration
}

// NewPriceSyncJob creates a new price cache refresh job.
// The timeout controls how long one refresh is allowed to run.
func NewPriceSyncJob(client PriceCacheRefresher, logger *zap.Logger, timeout time.Duration) *PriceSyncJob {
	return &PriceSyncJob{
		client:  client,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the refresh. This is called by the scheduler according to the
// cron expression.
func (j *PriceSyncJob) Run() {
	if j.client == nil || !j.client.IsEnabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("starting price history sync job")

	products, err := j.client.RefreshCache(ctx)
	if err != nil {
		j.logger.Error("price history sync failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("price history sync job completed",
		zap.Int("products", products),
		zap.Duration("duration", time.Since(start)))
}

// RegisterPriceSyncJob registers the refresh job with the scheduler. If
// runStartupSync is true, one refresh runs immediately in a background
// goroutine so it doesn't block API startup.
func RegisterPriceSyncJob(scheduler *Scheduler, client PriceCacheRefresher, logger *zap.Logger, cronExpr string, timeout time.Duration, runStartupSync bool) error {
	job := NewPriceSyncJob(client, logger, timeout)

	if runStartupSync {
		go job.Run()
	}

	return scheduler.AddJob(PriceSyncJobName, cronExpr, job.Run)
}
