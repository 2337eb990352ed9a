package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/service/notification"
	"github.com/clinicore/clinic-api/pkg/metrics"
)

// UpcomingLister yields appointments starting inside a window.
type UpcomingLister interface {
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
}

// NotificationSender is the slice of the notification service reminders need.
type NotificationSender interface {
	Send(ctx context.Context, req *notification.SendRequest) (*model.Notification, error)
}

// ReminderWorker notifies patients ahead of their appointments. Each tick
// covers the window [now+lead, now+lead+interval), so an appointment gets
// exactly one reminder as the window slides past it.
type ReminderWorker struct {
	appointments UpcomingLister
	notifier     NotificationSender
	metrics      *metrics.Metrics
	interval     time.Duration
	leadTime     time.Duration
}

func NewReminderWorker(appointments UpcomingLister, notifier NotificationSender, m *metrics.Metrics, interval, leadTime time.Duration) *ReminderWorker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if leadTime <= 0 {
		leadTime = 24 * time.Hour
	}
	return &ReminderWorker{
		appointments: appointments,
		notifier:     notifier,
		metrics:      m,
		interval:     interval,
		leadTime:     leadTime,
	}
}

func (w *ReminderWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", w.interval).Dur("lead_time", w.leadTime).Msg("reminder worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reminder worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *ReminderWorker) runOnce(ctx context.Context) {
	from := time.Now().Add(w.leadTime)
	to := from.Add(w.interval)

	upcoming, err := w.appointments.ListStartingBetween(ctx, from, to)
	if err != nil {
		log.Error().Err(err).Msg("reminder worker failed to list appointments")
		return
	}

	for _, appointment := range upcoming {
		if appointment.Status != model.AppointmentStatusScheduled && appointment.Status != model.AppointmentStatusConfirmed {
			continue
		}
		_, err := w.notifier.Send(ctx, &notification.SendRequest{
			UserID: appointment.PatientID,
			Type:   "appointment.reminder",
			Title:  "Upcoming appointment",
			Message: fmt.Sprintf("You have an appointment on %s at %s.",
				appointment.AppointmentDate.Format("2006-01-02"), appointment.AppointmentTime),
			Channel: model.ChannelEmail,
			Metadata: model.JSONMap{
				"appointment_id": appointment.ID.String(),
			},
		})
		if err != nil {
			log.Error().Err(err).
				Str("appointment_id", appointment.ID.String()).
				Msg("failed to send reminder")
			continue
		}
		if w.metrics != nil {
			w.metrics.RemindersSent.Inc()
		}
	}
}
