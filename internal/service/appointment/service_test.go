package appointment

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

type fakeAppointmentRepo struct {
	repository.AppointmentRepository
	byID    map[uuid.UUID]*model.Appointment
	taken   map[string]bool
	updated *model.Appointment
}

func slotKey(doctorID uuid.UUID, date time.Time, slot string) string {
	return doctorID.String() + date.Format("2006-01-02") + slot
}

func (f *fakeAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	a.ID = uuid.New()
	f.byID[a.ID] = a
	return nil
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
	f.updated = a
	return nil
}

func (f *fakeAppointmentRepo) ExistsAt(_ context.Context, doctorID uuid.UUID, date time.Time, slot string) (bool, error) {
	return f.taken[slotKey(doctorID, date, slot)], nil
}

type fakeDoctorRepo struct {
	repository.DoctorRepository
	doctors map[uuid.UUID]*model.Doctor
}

func (f *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	if d, ok := f.doctors[id]; ok {
		return d, nil
	}
	return nil, assert.AnError
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(context.Context, *model.ActivityLog) error { return nil }
func (fakeAuditRepo) List(context.Context, *model.ActivityLogFilters) ([]*model.ActivityLog, int, error) {
	return nil, 0, nil
}
func (fakeAuditRepo) DeleteBefore(context.Context, time.Time) (int64, error) { return 0, nil }

func newFixture(t *testing.T) (*Service, *fakeAppointmentRepo, uuid.UUID) {
	t.Helper()
	doctorID := uuid.New()
	appointments := &fakeAppointmentRepo{
		byID:  map[uuid.UUID]*model.Appointment{},
		taken: map[string]bool{},
	}
	doctors := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{
		doctorID: {IsAvailable: true},
	}}
	svc := NewService(appointments, doctors, activity.NewService(fakeAuditRepo{}))
	return svc, appointments, doctorID
}

var testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestCreate_StartsScheduled(t *testing.T) {
	svc, _, doctorID := newFixture(t)

	created, err := svc.Create(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		PatientID:       uuid.New(),
		DoctorID:        doctorID,
		ClinicID:        uuid.New(),
		AppointmentDate: testDate,
		AppointmentTime: "09:30",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, created.Status)
}

func TestCreate_RejectsDoubleBooking(t *testing.T) {
	svc, repo, doctorID := newFixture(t)
	repo.taken[slotKey(doctorID, testDate, "09:30")] = true

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		PatientID:       uuid.New(),
		DoctorID:        doctorID,
		ClinicID:        uuid.New(),
		AppointmentDate: testDate,
		AppointmentTime: "09:30",
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestCreate_UnavailableDoctorRejected(t *testing.T) {
	svc, _, doctorID := newFixture(t)
	svcDoctors := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{
		doctorID: {IsAvailable: false},
	}}
	svc = NewService(&fakeAppointmentRepo{byID: map[uuid.UUID]*model.Appointment{}, taken: map[string]bool{}},
		svcDoctors, activity.NewService(fakeAuditRepo{}))

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		PatientID:       uuid.New(),
		DoctorID:        doctorID,
		ClinicID:        uuid.New(),
		AppointmentDate: testDate,
		AppointmentTime: "09:30",
	})
	require.Error(t, err)
}

func TestTransition_LegalPath(t *testing.T) {
	svc, repo, doctorID := newFixture(t)
	id := uuid.New()
	repo.byID[id] = &model.Appointment{
		Base:     model.Base{ID: id},
		DoctorID: doctorID,
		Status:   model.AppointmentStatusScheduled,
	}

	for _, next := range []model.AppointmentStatus{
		model.AppointmentStatusConfirmed,
		model.AppointmentStatusInProgress,
		model.AppointmentStatusCompleted,
	} {
		updated, err := svc.Transition(context.Background(), uuid.New(), id, &model.TransitionAppointmentRequest{Status: next})
		require.NoError(t, err, "transition to %s", next)
		assert.Equal(t, next, updated.Status)
	}
}

func TestTransition_IllegalMoveRejected(t *testing.T) {
	svc, repo, doctorID := newFixture(t)
	id := uuid.New()
	repo.byID[id] = &model.Appointment{
		Base:     model.Base{ID: id},
		DoctorID: doctorID,
		Status:   model.AppointmentStatusCancelled,
	}

	_, err := svc.Transition(context.Background(), uuid.New(), id, &model.TransitionAppointmentRequest{
		Status: model.AppointmentStatusConfirmed,
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestTransition_CancelStoresReason(t *testing.T) {
	svc, repo, doctorID := newFixture(t)
	id := uuid.New()
	repo.byID[id] = &model.Appointment{
		Base:     model.Base{ID: id},
		DoctorID: doctorID,
		Status:   model.AppointmentStatusScheduled,
	}

	updated, err := svc.Transition(context.Background(), uuid.New(), id, &model.TransitionAppointmentRequest{
		Status: model.AppointmentStatusCancelled,
		Reason: "patient request",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.CancelReason)
	assert.Equal(t, "patient request", *updated.CancelReason)
}

func TestUpdate_CompletedCannotBeRescheduled(t *testing.T) {
	svc, repo, doctorID := newFixture(t)
	id := uuid.New()
	repo.byID[id] = &model.Appointment{
		Base:     model.Base{ID: id},
		DoctorID: doctorID,
		Status:   model.AppointmentStatusCompleted,
	}

	newSlot := "10:00"
	_, err := svc.Update(context.Background(), uuid.New(), id, &model.UpdateAppointmentRequest{
		AppointmentTime: &newSlot,
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}
