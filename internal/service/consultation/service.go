package consultation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/fsm"
	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/internal/service/activity"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

// Service manages consultations and their chat messages. Consultation status
// is kept in step with the owning appointment: starting one moves the
// appointment to IN_PROGRESS, completing it to COMPLETED.
type Service struct {
	repo         repository.ConsultationRepository
	messages     repository.MessageRepository
	appointments repository.AppointmentRepository
	auditor      *activity.Service
}

func NewService(repo repository.ConsultationRepository, messages repository.MessageRepository, appointments repository.AppointmentRepository, auditor *activity.Service) *Service {
	return &Service{repo: repo, messages: messages, appointments: appointments, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req *model.CreateConsultationRequest) (*model.Consultation, error) {
	appointment, err := s.appointments.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	if existing, _ := s.repo.GetByAppointment(ctx, req.AppointmentID); existing != nil {
		return nil, apperrors.Conflict("consultation already exists for this appointment", nil)
	}
	if appointment.Status == model.AppointmentStatusCancelled || appointment.Status == model.AppointmentStatusNoShow {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot open a consultation for a %s appointment", appointment.Status), nil)
	}

	consultation := &model.Consultation{
		AppointmentID: req.AppointmentID,
		Status:        model.ConsultationStatusPending,
		Notes:         req.Notes,
	}
	if err := s.repo.Create(ctx, consultation); err != nil {
		return nil, fmt.Errorf("failed to create consultation: %w", err)
	}

	s.auditor.Log(ctx, &actorID, "consultation.created", "consultation opened", "consultation", &consultation.ID, nil)
	return consultation, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Consultation, error) {
	consultation, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("consultation", err)
	}
	return consultation, nil
}

// Start moves the consultation to IN_PROGRESS and carries the appointment
// with it.
func (s *Service) Start(ctx context.Context, actorID, id uuid.UUID) (*model.Consultation, error) {
	consultation, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("consultation", err)
	}
	if err := fsm.CheckConsultation(consultation.Status, model.ConsultationStatusInProgress); err != nil {
		return nil, apperrors.Conflict(err.Error(), err)
	}

	now := time.Now()
	consultation.Status = model.ConsultationStatusInProgress
	consultation.StartedAt = &now
	if err := s.repo.Update(ctx, consultation); err != nil {
		return nil, fmt.Errorf("failed to start consultation: %w", err)
	}

	s.syncAppointment(ctx, consultation.AppointmentID, model.AppointmentStatusInProgress)
	s.auditor.Log(ctx, &actorID, "consultation.started", "consultation started", "consultation", &consultation.ID, nil)
	return consultation, nil
}

// Complete closes the consultation and the appointment.
func (s *Service) Complete(ctx context.Context, actorID, id uuid.UUID, notes string) (*model.Consultation, error) {
	consultation, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("consultation", err)
	}
	if err := fsm.CheckConsultation(consultation.Status, model.ConsultationStatusCompleted); err != nil {
		return nil, apperrors.Conflict(err.Error(), err)
	}

	now := time.Now()
	consultation.Status = model.ConsultationStatusCompleted
	consultation.EndedAt = &now
	if notes != "" {
		consultation.Notes = notes
	}
	if err := s.repo.Update(ctx, consultation); err != nil {
		return nil, fmt.Errorf("failed to complete consultation: %w", err)
	}

	s.syncAppointment(ctx, consultation.AppointmentID, model.AppointmentStatusCompleted)
	s.auditor.Log(ctx, &actorID, "consultation.completed", "consultation completed", "consultation", &consultation.ID, nil)
	return consultation, nil
}

func (s *Service) Cancel(ctx context.Context, actorID, id uuid.UUID) (*model.Consultation, error) {
	consultation, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("consultation", err)
	}
	if err := fsm.CheckConsultation(consultation.Status, model.ConsultationStatusCancelled); err != nil {
		return nil, apperrors.Conflict(err.Error(), err)
	}

	now := time.Now()
	consultation.Status = model.ConsultationStatusCancelled
	consultation.CancelledAt = &now
	if err := s.repo.Update(ctx, consultation); err != nil {
		return nil, fmt.Errorf("failed to cancel consultation: %w", err)
	}

	s.auditor.Log(ctx, &actorID, "consultation.cancelled", "consultation cancelled", "consultation", &consultation.ID, nil)
	return consultation, nil
}

// SendMessage persists a chat message inside an active consultation.
func (s *Service) SendMessage(ctx context.Context, consultationID, senderID uuid.UUID, req *model.CreateMessageRequest) (*model.Message, error) {
	consultation, err := s.repo.Get(ctx, consultationID)
	if err != nil {
		return nil, apperrors.NotFound("consultation", err)
	}
	if consultation.Status != model.ConsultationStatusInProgress {
		return nil, apperrors.Conflict("consultation is not active", nil)
	}

	msgType := req.MessageType
	if msgType == "" {
		msgType = model.MessageTypeText
	}
	message := &model.Message{
		ConsultationID: consultationID,
		SenderID:       senderID,
		Content:        req.Content,
		MessageType:    msgType,
		FileURL:        req.FileURL,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	return message, nil
}

func (s *Service) ListMessages(ctx context.Context, filters *model.MessageFilters) ([]*model.Message, error) {
	filters.Normalize()
	return s.messages.List(ctx, filters)
}

// MarkMessagesRead marks every message in the consultation not sent by the
// reader as read, returning the number touched.
func (s *Service) MarkMessagesRead(ctx context.Context, consultationID, readerID uuid.UUID) (int64, error) {
	if _, err := s.repo.Get(ctx, consultationID); err != nil {
		return 0, apperrors.NotFound("consultation", err)
	}
	return s.messages.MarkRead(ctx, consultationID, readerID)
}

// syncAppointment follows the consultation transition on the appointment.
// A divergent appointment state is logged through the audit trail rather
// than failing the consultation change.
func (s *Service) syncAppointment(ctx context.Context, appointmentID uuid.UUID, target model.AppointmentStatus) {
	appointment, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return
	}
	if appointment.Status == target {
		return
	}
	if err := fsm.CheckAppointment(appointment.Status, target); err != nil {
		s.auditor.Log(ctx, nil, "appointment.sync_skipped", err.Error(), "appointment", &appointmentID,
			&activity.LogOptions{Severity: model.SeverityWarning})
		return
	}
	appointment.Status = target
	if err := s.appointments.Update(ctx, appointment); err != nil {
		s.auditor.Log(ctx, nil, "appointment.sync_failed", err.Error(), "appointment", &appointmentID,
			&activity.LogOptions{Severity: model.SeverityWarning})
	}
}
