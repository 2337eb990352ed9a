package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/pkg/metrics"
)

// CancelledLister yields upcoming appointments that were cancelled, the
// signal that a slot has opened.
type CancelledLister interface {
	ListCancelledUpcoming(ctx context.Context, since time.Time) ([]*model.Appointment, error)
}

// Promoter promotes waiting list entries for one doctor.
type Promoter interface {
	PromoteForDoctor(ctx context.Context, doctorID uuid.UUID) (int, error)
}

// PromoterWorker periodically scans for freed slots and promotes waiting
// list entries toward them. Runs are idempotent: promoted entries are
// marked inside the promotion transaction, so overlapping runs on other
// instances cannot double-notify.
type PromoterWorker struct {
	appointments CancelledLister
	waitingList  Promoter
	metrics      *metrics.Metrics
	interval     time.Duration
}

func NewPromoterWorker(appointments CancelledLister, waitingList Promoter, m *metrics.Metrics, interval time.Duration) *PromoterWorker {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &PromoterWorker{
		appointments: appointments,
		waitingList:  waitingList,
		metrics:      m,
		interval:     interval,
	}
}

func (w *PromoterWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", w.interval).Msg("waiting list promoter started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("waiting list promoter stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *PromoterWorker) runOnce(ctx context.Context) {
	start := time.Now()
	defer func() {
		if w.metrics != nil {
			w.metrics.PromoterRunDuration.Observe(time.Since(start).Seconds())
		}
	}()

	cancelled, err := w.appointments.ListCancelledUpcoming(ctx, time.Now().Add(-w.interval))
	if err != nil {
		log.Error().Err(err).Msg("promoter failed to list cancelled appointments")
		if w.metrics != nil {
			w.metrics.WaitingListRunErrors.Inc()
		}
		return
	}

	doctors := make(map[uuid.UUID]struct{})
	for _, appointment := range cancelled {
		doctors[appointment.DoctorID] = struct{}{}
	}

	total := 0
	for doctorID := range doctors {
		promoted, err := w.waitingList.PromoteForDoctor(ctx, doctorID)
		if err != nil {
			log.Error().Err(err).Str("doctor_id", doctorID.String()).Msg("promotion failed")
			if w.metrics != nil {
				w.metrics.WaitingListRunErrors.Inc()
			}
			continue
		}
		total += promoted
	}

	if total > 0 {
		if w.metrics != nil {
			w.metrics.WaitingListPromoted.Add(float64(total))
		}
		log.Info().Int("promoted", total).Int("doctors", len(doctors)).Msg("promoter run complete")
	}
}
