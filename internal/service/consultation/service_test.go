package consultation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/internal/service/activity"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type fakeConsultationRepo struct {
	repository.ConsultationRepository
	byID          map[uuid.UUID]*model.Consultation
	byAppointment map[uuid.UUID]*model.Consultation
}

func (f *fakeConsultationRepo) Create(_ context.Context, c *model.Consultation) error {
	c.ID = uuid.New()
	f.byID[c.ID] = c
	f.byAppointment[c.AppointmentID] = c
	return nil
}

func (f *fakeConsultationRepo) Get(_ context.Context, id uuid.UUID) (*model.Consultation, error) {
	if c, ok := f.byID[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, assert.AnError
}

func (f *fakeConsultationRepo) GetByAppointment(_ context.Context, appointmentID uuid.UUID) (*model.Consultation, error) {
	if c, ok := f.byAppointment[appointmentID]; ok {
		return c, nil
	}
	return nil, assert.AnError
}

func (f *fakeConsultationRepo) Update(_ context.Context, c *model.Consultation) error {
	f.byID[c.ID] = c
	f.byAppointment[c.AppointmentID] = c
	return nil
}

type fakeMessageRepo struct {
	repository.MessageRepository
	messages []*model.Message
}

func (f *fakeMessageRepo) Create(_ context.Context, m *model.Message) error {
	m.ID = uuid.New()
	f.messages = append(f.messages, m)
	return nil
}

type fakeAppointmentRepo struct {
	repository.AppointmentRepository
	byID map[uuid.UUID]*model.Appointment
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	if a, ok := f.byID[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, assert.AnError
}

func (f *fakeAppointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	f.byID[a.ID] = a
	return nil
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(context.Context, *model.ActivityLog) error { return nil }
func (fakeAuditRepo) List(context.Context, *model.ActivityLogFilters) ([]*model.ActivityLog, int, error) {
	return nil, 0, nil
}
func (fakeAuditRepo) DeleteBefore(context.Context, time.Time) (int64, error) { return 0, nil }

type fixture struct {
	svc           *Service
	consultations *fakeConsultationRepo
	messages      *fakeMessageRepo
	appointments  *fakeAppointmentRepo
}

func newFixture() *fixture {
	consultations := &fakeConsultationRepo{
		byID:          map[uuid.UUID]*model.Consultation{},
		byAppointment: map[uuid.UUID]*model.Consultation{},
	}
	messages := &fakeMessageRepo{}
	appointments := &fakeAppointmentRepo{byID: map[uuid.UUID]*model.Appointment{}}
	return &fixture{
		svc:           NewService(consultations, messages, appointments, activity.NewService(fakeAuditRepo{})),
		consultations: consultations,
		messages:      messages,
		appointments:  appointments,
	}
}

func (f *fixture) addAppointment(status model.AppointmentStatus) *model.Appointment {
	a := &model.Appointment{
		Base:   model.Base{ID: uuid.New()},
		Status: status,
	}
	f.appointments.byID[a.ID] = a
	return a
}

func TestCreate_OnePerAppointment(t *testing.T) {
	f := newFixture()
	appointment := f.addAppointment(model.AppointmentStatusConfirmed)

	first, err := f.svc.Create(context.Background(), uuid.New(), &model.CreateConsultationRequest{
		AppointmentID: appointment.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ConsultationStatusPending, first.Status)

	_, err = f.svc.Create(context.Background(), uuid.New(), &model.CreateConsultationRequest{
		AppointmentID: appointment.ID,
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestCreate_RejectsCancelledAppointment(t *testing.T) {
	f := newFixture()
	appointment := f.addAppointment(model.AppointmentStatusCancelled)

	_, err := f.svc.Create(context.Background(), uuid.New(), &model.CreateConsultationRequest{
		AppointmentID: appointment.ID,
	})
	require.Error(t, err)
}

func TestStart_MovesAppointmentInProgress(t *testing.T) {
	f := newFixture()
	appointment := f.addAppointment(model.AppointmentStatusConfirmed)
	created, err := f.svc.Create(context.Background(), uuid.New(), &model.CreateConsultationRequest{
		AppointmentID: appointment.ID,
	})
	require.NoError(t, err)

	started, err := f.svc.Start(context.Background(), uuid.New(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConsultationStatusInProgress, started.Status)
	require.NotNil(t, started.StartedAt)

	assert.Equal(t, model.AppointmentStatusInProgress, f.appointments.byID[appointment.ID].Status)
}

func TestComplete_ClosesBothRecords(t *testing.T) {
	f := newFixture()
	appointment := f.addAppointment(model.AppointmentStatusConfirmed)
	created, err := f.svc.Create(context.Background(), uuid.New(), &model.CreateConsultationRequest{
		AppointmentID: appointment.ID,
	})
	require.NoError(t, err)
	_, err = f.svc.Start(context.Background(), uuid.New(), created.ID)
	require.NoError(t, err)

	completed, err := f.svc.Complete(context.Background(), uuid.New(), created.ID, "resolved")
	require.NoError(t, err)
	assert.Equal(t, model.ConsultationStatusCompleted, completed.Status)
	assert.Equal(t, "resolved", completed.Notes)
	require.NotNil(t, completed.EndedAt)

	assert.Equal(t, model.AppointmentStatusCompleted, f.appointments.byID[appointment.ID].Status)
}

func TestComplete_RequiresInProgress(t *testing.T) {
	f := newFixture()
	appointment := f.addAppointment(model.AppointmentStatusConfirmed)
	created, err := f.svc.Create(context.Background(), uuid.New(), &model.CreateConsultationRequest{
		AppointmentID: appointment.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), uuid.New(), created.ID, "")
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestSendMessage_OnlyWhileActive(t *testing.T) {
	f := newFixture()
	appointment := f.addAppointment(model.AppointmentStatusConfirmed)
	created, err := f.svc.Create(context.Background(), uuid.New(), &model.CreateConsultationRequest{
		AppointmentID: appointment.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.SendMessage(context.Background(), created.ID, uuid.New(), &model.CreateMessageRequest{
		Content: "hello",
	})
	require.Error(t, err)

	_, err = f.svc.Start(context.Background(), uuid.New(), created.ID)
	require.NoError(t, err)

	message, err := f.svc.SendMessage(context.Background(), created.ID, uuid.New(), &model.CreateMessageRequest{
		Content: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MessageTypeText, message.MessageType)
	assert.Len(t, f.messages.messages, 1)
}
