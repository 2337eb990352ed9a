package worker

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/service/notification"
)

type fakeCancelledLister struct {
	appointments []*model.Appointment
	err          error
}

func (f *fakeCancelledLister) ListCancelledUpcoming(context.Context, time.Time) ([]*model.Appointment, error) {
	return f.appointments, f.err
}

type fakePromoter struct {
	calls    map[uuid.UUID]int
	promoted int
}

func (f *fakePromoter) PromoteForDoctor(_ context.Context, doctorID uuid.UUID) (int, error) {
	if f.calls == nil {
		f.calls = map[uuid.UUID]int{}
	}
	f.calls[doctorID]++
	return f.promoted, nil
}

func cancelledFor(doctorIDs ...uuid.UUID) []*model.Appointment {
	appointments := make([]*model.Appointment, 0, len(doctorIDs))
	for _, id := range doctorIDs {
		appointments = append(appointments, &model.Appointment{
			DoctorID: id,
			Status:   model.AppointmentStatusCancelled,
		})
	}
	return appointments
}

func TestPromoterRun_OnePromotionPerDoctor(t *testing.T) {
	doctorA := uuid.New()
	doctorB := uuid.New()
	// Two cancellations for doctorA must still yield a single promotion call.
	lister := &fakeCancelledLister{appointments: cancelledFor(doctorA, doctorA, doctorB)}
	promoter := &fakePromoter{promoted: 2}
	w := NewPromoterWorker(lister, promoter, nil, time.Minute)

	w.runOnce(context.Background())

	require.Len(t, promoter.calls, 2)
	assert.Equal(t, 1, promoter.calls[doctorA])
	assert.Equal(t, 1, promoter.calls[doctorB])
}

func TestPromoterRun_NoCancellationsNoCalls(t *testing.T) {
	promoter := &fakePromoter{}
	w := NewPromoterWorker(&fakeCancelledLister{}, promoter, nil, time.Minute)

	w.runOnce(context.Background())

	assert.Empty(t, promoter.calls)
}

func TestPromoterRun_ListErrorSkipsPromotion(t *testing.T) {
	promoter := &fakePromoter{}
	lister := &fakeCancelledLister{err: assert.AnError}
	w := NewPromoterWorker(lister, promoter, nil, time.Minute)

	w.runOnce(context.Background())

	assert.Empty(t, promoter.calls)
}

type fakeUpcomingLister struct {
	appointments []*model.Appointment
}

func (f *fakeUpcomingLister) ListStartingBetween(context.Context, time.Time, time.Time) ([]*model.Appointment, error) {
	return f.appointments, nil
}

type fakeReminderNotifier struct {
	sent []*notification.SendRequest
}

func (f *fakeReminderNotifier) Send(_ context.Context, req *notification.SendRequest) (*model.Notification, error) {
	f.sent = append(f.sent, req)
	return &model.Notification{}, nil
}

func TestReminderRun_SkipsCancelledAppointments(t *testing.T) {
	active := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		PatientID:       uuid.New(),
		Status:          model.AppointmentStatusConfirmed,
		AppointmentDate: time.Now().AddDate(0, 0, 1),
		AppointmentTime: "09:00",
	}
	cancelled := &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		PatientID: uuid.New(),
		Status:    model.AppointmentStatusCancelled,
	}

	notifier := &fakeReminderNotifier{}
	w := NewReminderWorker(&fakeUpcomingLister{appointments: []*model.Appointment{active, cancelled}},
		notifier, nil, 15*time.Minute, 24*time.Hour)

	w.runOnce(context.Background())

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, active.PatientID, notifier.sent[0].UserID)
	assert.Equal(t, "appointment.reminder", notifier.sent[0].Type)
}
