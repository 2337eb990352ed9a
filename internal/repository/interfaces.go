package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.UserFilters) ([]*model.User, int, error)
	UpsertProfile(ctx context.Context, profile *model.Profile) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
	Update(ctx context.Context, doctor *model.Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, int, error)
	CreateSchedule(ctx context.Context, schedule *model.Schedule) error
	ListSchedules(ctx context.Context, doctorID uuid.UUID) ([]*model.Schedule, error)
	GetScheduleForDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) (*model.Schedule, error)
	DeleteSchedule(ctx context.Context, id uuid.UUID) error
}

type ClinicRepository interface {
	Create(ctx context.Context, clinic *model.Clinic) error
	Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	Update(ctx context.Context, clinic *model.Clinic) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.Clinic, error)
	CreateDepartment(ctx context.Context, department *model.Department) error
	GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error)
	ListDepartments(ctx context.Context, clinicID uuid.UUID) ([]*model.Department, error)
	DeleteDepartment(ctx context.Context, id uuid.UUID) error
}

type SpecialtyRepository interface {
	Create(ctx context.Context, specialty *model.Specialty) error
	Get(ctx context.Context, id uuid.UUID) (*model.Specialty, error)
	List(ctx context.Context) ([]*model.Specialty, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, int, error)
	ExistsAt(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) (bool, error)
	ListBookedTimes(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error)
	ListCancelledUpcoming(ctx context.Context, since time.Time) ([]*model.Appointment, error)
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
}

type ConsultationRepository interface {
	Create(ctx context.Context, consultation *model.Consultation) error
	Get(ctx context.Context, id uuid.UUID) (*model.Consultation, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Consultation, error)
	Update(ctx context.Context, consultation *model.Consultation) error
}

type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	Get(ctx context.Context, id uuid.UUID) (*model.Message, error)
	List(ctx context.Context, filters *model.MessageFilters) ([]*model.Message, error)
	MarkRead(ctx context.Context, consultationID, readerID uuid.UUID) (int64, error)
}

type WaitingListRepository interface {
	Create(ctx context.Context, entry *model.WaitingListEntry) error
	Get(ctx context.Context, id uuid.UUID) (*model.WaitingListEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.WaitingListFilters) ([]*model.WaitingListEntry, error)
	HasActiveEntry(ctx context.Context, patientID, doctorID uuid.UUID) (bool, error)
	SelectAndMarkNotified(ctx context.Context, doctorID uuid.UUID, limit int) ([]*model.WaitingListEntry, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	Update(ctx context.Context, notification *model.Notification) error
	List(ctx context.Context, filters *model.NotificationFilters) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	List(ctx context.Context, filters *model.ActivityLogFilters) ([]*model.ActivityLog, int, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type StatsRepository interface {
	CountUsersByRole(ctx context.Context) (map[string]int, error)
	CountAppointmentsByStatus(ctx context.Context) (map[string]int, error)
	CountAppointmentsOn(ctx context.Context, day time.Time) (int, error)
	CountClinics(ctx context.Context) (int, error)
	CountDoctors(ctx context.Context) (int, error)
}
