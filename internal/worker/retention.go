package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/pkg/metrics"
)

// AgePurger deletes rows older than a cutoff.
type AgePurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// LogPurger deletes audit rows older than a cutoff.
type LogPurger interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionWorker enforces data retention: notified waiting list entries
// and old activity logs are purged on a daily cycle.
type RetentionWorker struct {
	waitingList     AgePurger
	activityLogs    LogPurger
	metrics         *metrics.Metrics
	interval        time.Duration
	waitingListDays int
	activityDays    int
}

func NewRetentionWorker(waitingList AgePurger, activityLogs LogPurger, m *metrics.Metrics, interval time.Duration, waitingListDays, activityDays int) *RetentionWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if waitingListDays <= 0 {
		waitingListDays = 30
	}
	if activityDays <= 0 {
		activityDays = 90
	}
	return &RetentionWorker{
		waitingList:     waitingList,
		activityLogs:    activityLogs,
		metrics:         m,
		interval:        interval,
		waitingListDays: waitingListDays,
		activityDays:    activityDays,
	}
}

func (w *RetentionWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", w.interval).Msg("retention worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("retention worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *RetentionWorker) runOnce(ctx context.Context) {
	now := time.Now()

	deleted, err := w.waitingList.DeleteOlderThan(ctx, now.AddDate(0, 0, -w.waitingListDays))
	if err != nil {
		log.Error().Err(err).Msg("failed to purge waiting list entries")
	} else if deleted > 0 {
		if w.metrics != nil {
			w.metrics.RetentionRowsDeleted.WithLabelValues("waiting_list").Add(float64(deleted))
		}
		log.Info().Int64("deleted", deleted).Msg("purged old waiting list entries")
	}

	deleted, err = w.activityLogs.DeleteBefore(ctx, now.AddDate(0, 0, -w.activityDays))
	if err != nil {
		log.Error().Err(err).Msg("failed to purge activity logs")
	} else if deleted > 0 {
		if w.metrics != nil {
			w.metrics.RetentionRowsDeleted.WithLabelValues("activity_logs").Add(float64(deleted))
		}
		log.Info().Int64("deleted", deleted).Msg("purged old activity logs")
	}
}
