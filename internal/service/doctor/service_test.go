package doctor

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

type fakeDoctorRepo struct {
	repository.DoctorRepository
	doctors   map[uuid.UUID]*model.Doctor
	schedules map[int]*model.Schedule
}

func (f *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	if d, ok := f.doctors[id]; ok {
		return d, nil
	}
	return nil, assert.AnError
}

func (f *fakeDoctorRepo) GetScheduleForDay(_ context.Context, _ uuid.UUID, dayOfWeek int) (*model.Schedule, error) {
	return f.schedules[dayOfWeek], nil
}

type fakeAppointmentRepo struct {
	repository.AppointmentRepository
	booked []string
}

func (f *fakeAppointmentRepo) ListBookedTimes(_ context.Context, _ uuid.UUID, _ time.Time) ([]string, error) {
	return f.booked, nil
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(context.Context, *model.ActivityLog) error { return nil }
func (fakeAuditRepo) List(context.Context, *model.ActivityLogFilters) ([]*model.ActivityLog, int, error) {
	return nil, 0, nil
}
func (fakeAuditRepo) DeleteBefore(context.Context, time.Time) (int64, error) { return 0, nil }

func newTestService(doctors *fakeDoctorRepo, appointments *fakeAppointmentRepo) *Service {
	return NewService(doctors, appointments, activity.NewService(fakeAuditRepo{}))
}

// Monday 2026-03-02
var testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestAvailableSlots_DoctorNotFound(t *testing.T) {
	svc := newTestService(&fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{}}, &fakeAppointmentRepo{})

	_, err := svc.AvailableSlots(context.Background(), uuid.New(), testDate)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestAvailableSlots_NoScheduleForDay(t *testing.T) {
	doctorID := uuid.New()
	repo := &fakeDoctorRepo{
		doctors:   map[uuid.UUID]*model.Doctor{doctorID: {}},
		schedules: map[int]*model.Schedule{},
	}
	svc := newTestService(repo, &fakeAppointmentRepo{})

	slots, err := svc.AvailableSlots(context.Background(), doctorID, testDate)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSlots_ThirtyMinuteSteps(t *testing.T) {
	doctorID := uuid.New()
	repo := &fakeDoctorRepo{
		doctors: map[uuid.UUID]*model.Doctor{doctorID: {}},
		schedules: map[int]*model.Schedule{
			int(time.Monday): {StartTime: "09:00", EndTime: "11:00", IsActive: true},
		},
	}
	svc := newTestService(repo, &fakeAppointmentRepo{})

	slots, err := svc.AvailableSlots(context.Background(), doctorID, testDate)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	times := make([]string, 0, len(slots))
	for _, slot := range slots {
		times = append(times, slot.Time)
	}
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, times)
}

func TestAvailableSlots_ExcludesBookedTimes(t *testing.T) {
	doctorID := uuid.New()
	repo := &fakeDoctorRepo{
		doctors: map[uuid.UUID]*model.Doctor{doctorID: {}},
		schedules: map[int]*model.Schedule{
			int(time.Monday): {StartTime: "09:00", EndTime: "10:30", IsActive: true},
		},
	}
	svc := newTestService(repo, &fakeAppointmentRepo{booked: []string{"09:30"}})

	slots, err := svc.AvailableSlots(context.Background(), doctorID, testDate)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	times := make([]string, 0, len(slots))
	for _, slot := range slots {
		times = append(times, slot.Time)
	}
	assert.Equal(t, []string{"09:00", "10:00"}, times)
	assert.NotContains(t, times, "09:30")
}

func TestAvailableSlots_InactiveScheduleYieldsNothing(t *testing.T) {
	doctorID := uuid.New()
	repo := &fakeDoctorRepo{
		doctors: map[uuid.UUID]*model.Doctor{doctorID: {}},
		schedules: map[int]*model.Schedule{
			int(time.Monday): {StartTime: "09:00", EndTime: "17:00", IsActive: false},
		},
	}
	svc := newTestService(repo, &fakeAppointmentRepo{})

	slots, err := svc.AvailableSlots(context.Background(), doctorID, testDate)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestCreateSchedule_RejectsInvertedWindow(t *testing.T) {
	doctorID := uuid.New()
	repo := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{doctorID: {}}}
	svc := newTestService(repo, &fakeAppointmentRepo{})

	_, err := svc.CreateSchedule(context.Background(), doctorID, &model.CreateScheduleRequest{
		DayOfWeek: 1,
		StartTime: "17:00",
		EndTime:   "09:00",
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}
