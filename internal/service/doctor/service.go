package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/internal/service/activity"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

const slotMinutes = 30

type Service struct {
	repo         repository.DoctorRepository
	appointments repository.AppointmentRepository
	auditor      *activity.Service
}

func NewService(repo repository.DoctorRepository, appointments repository.AppointmentRepository, auditor *activity.Service) *Service {
	return &Service{repo: repo, appointments: appointments, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if existing, _ := s.repo.GetByUserID(ctx, req.UserID); existing != nil {
		return nil, apperrors.Conflict("doctor profile already exists for this user", nil)
	}

	doctor := &model.Doctor{
		UserID:          req.UserID,
		ClinicID:        req.ClinicID,
		DepartmentID:    req.DepartmentID,
		SpecialtyID:     req.SpecialtyID,
		Specialization:  req.Specialization,
		LicenseNumber:   req.LicenseNumber,
		ExperienceYears: req.ExperienceYears,
		ConsultationFee: req.ConsultationFee,
		IsAvailable:     true,
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}
	s.auditor.Log(ctx, &actorID, "doctor.created", "doctor created", "doctor", &doctor.ID,
		&activity.LogOptions{After: doctor})
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}
	return doctor, nil
}

func (s *Service) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, int, error) {
	filters.Normalize()
	return s.repo.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, actorID, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}
	before := *doctor

	if req.DepartmentID != nil {
		doctor.DepartmentID = req.DepartmentID
	}
	if req.SpecialtyID != nil {
		doctor.SpecialtyID = req.SpecialtyID
	}
	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.ExperienceYears != nil {
		doctor.ExperienceYears = *req.ExperienceYears
	}
	if req.ConsultationFee != nil {
		doctor.ConsultationFee = *req.ConsultationFee
	}
	if req.IsAvailable != nil {
		doctor.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}
	s.auditor.Log(ctx, &actorID, "doctor.updated", "doctor updated", "doctor", &doctor.ID,
		&activity.LogOptions{Before: before, After: doctor})
	return doctor, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return apperrors.NotFound("doctor", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	s.auditor.Log(ctx, &actorID, "doctor.deleted", "doctor deleted", "doctor", &id,
		&activity.LogOptions{Severity: model.SeverityWarning})
	return nil
}

func (s *Service) CreateSchedule(ctx context.Context, doctorID uuid.UUID, req *model.CreateScheduleRequest) (*model.Schedule, error) {
	if _, err := s.repo.Get(ctx, doctorID); err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}

	start, err := parseClock(req.StartTime)
	if err != nil {
		return nil, apperrors.BadRequest("invalid start_time, expected HH:MM", err)
	}
	end, err := parseClock(req.EndTime)
	if err != nil {
		return nil, apperrors.BadRequest("invalid end_time, expected HH:MM", err)
	}
	if !start.Before(end) {
		return nil, apperrors.BadRequest("start_time must be before end_time", nil)
	}

	schedule := &model.Schedule{
		DoctorID:  doctorID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsActive:  true,
	}
	if err := s.repo.CreateSchedule(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	return schedule, nil
}

func (s *Service) ListSchedules(ctx context.Context, doctorID uuid.UUID) ([]*model.Schedule, error) {
	if _, err := s.repo.Get(ctx, doctorID); err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}
	return s.repo.ListSchedules(ctx, doctorID)
}

func (s *Service) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteSchedule(ctx, id); err != nil {
		return apperrors.NotFound("schedule", err)
	}
	return nil
}

// AvailableSlots walks the doctor's schedule for the requested day in
// 30-minute steps, leaving out times that are already booked. A doctor
// with no schedule for that weekday yields an empty list.
func (s *Service) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.TimeSlot, error) {
	if _, err := s.repo.Get(ctx, doctorID); err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}

	schedule, err := s.repo.GetScheduleForDay(ctx, doctorID, int(date.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if schedule == nil || !schedule.IsActive {
		return []*model.TimeSlot{}, nil
	}

	booked, err := s.appointments.ListBookedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked times: %w", err)
	}
	taken := make(map[string]bool, len(booked))
	for _, t := range booked {
		taken[t] = true
	}

	start, err := parseClock(schedule.StartTime)
	if err != nil {
		return nil, fmt.Errorf("malformed schedule start time %q: %w", schedule.StartTime, err)
	}
	end, err := parseClock(schedule.EndTime)
	if err != nil {
		return nil, fmt.Errorf("malformed schedule end time %q: %w", schedule.EndTime, err)
	}

	slots := []*model.TimeSlot{}
	for t := start; t.Before(end); t = t.Add(slotMinutes * time.Minute) {
		clock := t.Format("15:04")
		if taken[clock] {
			continue
		}
		slots = append(slots, &model.TimeSlot{Time: clock})
	}
	return slots, nil
}

func parseClock(value string) (time.Time, error) {
	return time.Parse("15:04", value)
}
