package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/domain"
	"github.com/comprasys/cotacao-api/internal/repository"
)

// DeadlineJobName is the name of the response deadline watcher job
const DeadlineJobName = "deadline_watch"

// deadlineJobBatchSize caps how many quotations one run inspects.
const deadlineJobBatchSize = 200

// DeadlineJob marks quotations whose response deadline has lapsed while
// still open. The status is left untouched; the lapse is recorded on the
// audit trail so dashboards and reviewers can see stalled quotations.
type DeadlineJob struct {
	quotationRepo *repository.QuotationRepository
	eventRepo     *repository.EventRepository
	logger        *zap.Logger
	timeout       time.Duration
}

// NewDeadlineJob creates a new deadline watcher job.
func NewDeadlineJob(quotationRepo *repository.QuotationRepository, eventRepo *repository.EventRepository, logger *zap.Logger, timeout time.Duration) *DeadlineJob {
	return &DeadlineJob{
		quotationRepo: quotationRepo,
		eventRepo:     eventRepo,
		logger:        logger,
		timeout:       timeout,
	}
}

// Run executes one watch pass. This is called by the scheduler according to
// the cron expression.
func (j *DeadlineJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	expired, err := j.quotationRepo.ListExpired(ctx, deadlineJobBatchSize)
	if err != nil {
		j.logger.Error("deadline watch failed to list quotations",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	marked := 0
	for _, quotation := range expired {
		already, err := j.alreadyMarked(ctx, quotation)
		if err != nil {
			j.logger.Warn("deadline watch failed to check trail",
				zap.String("quotationID", quotation.ID.String()),
				zap.Error(err))
			continue
		}
		if already {
			continue
		}

		event := &domain.QuotationEvent{
			QuotationID: quotation.ID,
			Version:     quotation.CurrentVersion,
			Kind:        domain.EventKindDeadlineLapsed,
			FromStatus:  quotation.Status,
			ToStatus:    quotation.Status,
			Detail:      "response deadline lapsed",
			ActorID:     "system",
			ActorName:   "Deadline Watcher",
		}
		if err := j.eventRepo.Create(ctx, event); err != nil {
			j.logger.Warn("deadline watch failed to record event",
				zap.String("quotationID", quotation.ID.String()),
				zap.Error(err))
			continue
		}
		marked++
	}

	if len(expired) > 0 || marked > 0 {
		j.logger.Info("deadline watch completed",
			zap.Int("expired", len(expired)),
			zap.Int("marked", marked),
			zap.Duration("duration", time.Since(start)))
	}
}

// alreadyMarked reports whether the current version already carries a lapse
// event, so a quotation is marked once per version, not once per run.
func (j *DeadlineJob) alreadyMarked(ctx context.Context, quotation domain.Quotation) (bool, error) {
	events, err := j.eventRepo.ListByQuotation(ctx, quotation.ID)
	if err != nil {
		return false, err
	}
	for _, event := range events {
		if event.Kind == domain.EventKindDeadlineLapsed && event.Version == quotation.CurrentVersion {
			return true, nil
		}
	}
	return false, nil
}

// RegisterDeadlineJob registers the watcher with the scheduler.
func RegisterDeadlineJob(scheduler *Scheduler, quotationRepo *repository.QuotationRepository, eventRepo *repository.EventRepository, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewDeadlineJob(quotationRepo, eventRepo, logger, timeout)
	return scheduler.AddJob(DeadlineJobName, cronExpr, job.Run)
}
