package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/fsm"
	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/internal/service/activity"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type Service struct {
	repo    repository.AppointmentRepository
	doctors repository.DoctorRepository
	auditor *activity.Service
}

func NewService(repo repository.AppointmentRepository, doctors repository.DoctorRepository, auditor *activity.Service) *Service {
	return &Service{repo: repo, doctors: doctors, auditor: auditor}
}

// Create books a new appointment in SCHEDULED status. The slot must not
// already hold an active booking for the doctor.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	doctor, err := s.doctors.Get(ctx, req.DoctorID)
	if err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}
	if !doctor.IsAvailable {
		return nil, apperrors.Conflict("doctor is not accepting appointments", nil)
	}

	taken, err := s.repo.ExistsAt(ctx, req.DoctorID, req.AppointmentDate, req.AppointmentTime)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot availability: %w", err)
	}
	if taken {
		return nil, apperrors.Conflict("time slot is already booked", nil)
	}

	appointment := &model.Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		ClinicID:        req.ClinicID,
		DepartmentID:    req.DepartmentID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Status:          model.AppointmentStatusScheduled,
		IsEmergency:     req.IsEmergency,
		Notes:           req.Notes,
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.auditor.Log(ctx, &actorID, "appointment.created", "appointment booked", "appointment", &appointment.ID,
		&activity.LogOptions{After: appointment})
	return appointment, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	return appointment, nil
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, int, error) {
	filters.Normalize()
	return s.repo.List(ctx, filters)
}

// Update reschedules an appointment. Only SCHEDULED and CONFIRMED
// appointments can move.
func (s *Service) Update(ctx context.Context, actorID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	if appointment.Status != model.AppointmentStatusScheduled && appointment.Status != model.AppointmentStatusConfirmed {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot reschedule a %s appointment", appointment.Status), nil)
	}
	before := *appointment

	date := appointment.AppointmentDate
	slot := appointment.AppointmentTime
	if req.AppointmentDate != nil {
		date = *req.AppointmentDate
	}
	if req.AppointmentTime != nil {
		slot = *req.AppointmentTime
	}

	if !date.Equal(appointment.AppointmentDate) || slot != appointment.AppointmentTime {
		taken, err := s.repo.ExistsAt(ctx, appointment.DoctorID, date, slot)
		if err != nil {
			return nil, fmt.Errorf("failed to check slot availability: %w", err)
		}
		if taken {
			return nil, apperrors.Conflict("time slot is already booked", nil)
		}
		appointment.AppointmentDate = date
		appointment.AppointmentTime = slot
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	s.auditor.Log(ctx, &actorID, "appointment.updated", "appointment rescheduled", "appointment", &appointment.ID,
		&activity.LogOptions{Before: before, After: appointment})
	return appointment, nil
}

// Transition moves an appointment through its lifecycle. Illegal moves are
// rejected with a conflict.
func (s *Service) Transition(ctx context.Context, actorID, id uuid.UUID, req *model.TransitionAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	before := *appointment

	if err := fsm.CheckAppointment(appointment.Status, req.Status); err != nil {
		return nil, apperrors.Conflict(err.Error(), err)
	}

	appointment.Status = req.Status
	if req.Status == model.AppointmentStatusCancelled && req.Reason != "" {
		reason := req.Reason
		appointment.CancelReason = &reason
	}

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	s.auditor.Log(ctx, &actorID, "appointment.transitioned",
		fmt.Sprintf("appointment moved to %s", req.Status), "appointment", &appointment.ID,
		&activity.LogOptions{Before: before, After: appointment})
	return appointment, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return apperrors.NotFound("appointment", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	s.auditor.Log(ctx, &actorID, "appointment.deleted", "appointment deleted", "appointment", &id,
		&activity.LogOptions{Severity: model.SeverityWarning})
	return nil
}
