package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed  AppointmentStatus = "CONFIRMED"
	AppointmentStatusInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentStatusCompleted  AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled  AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow     AppointmentStatus = "NO_SHOW"
)

// Appointment is a booked visit. AppointmentDate carries the calendar day,
// AppointmentTime the slot start in "15:04" format.
type Appointment struct {
	Base
	PatientID       uuid.UUID         `json:"patient_id" db:"patient_id"`
	DoctorID        uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	ClinicID        uuid.UUID         `json:"clinic_id" db:"clinic_id"`
	DepartmentID    *uuid.UUID        `json:"department_id" db:"department_id"`
	AppointmentDate time.Time         `json:"appointment_date" db:"appointment_date"`
	AppointmentTime string            `json:"appointment_time" db:"appointment_time"`
	Status          AppointmentStatus `json:"status" db:"status"`
	IsEmergency     bool              `json:"is_emergency" db:"is_emergency"`
	Notes           string            `json:"notes" db:"notes"`
	CancelReason    *string           `json:"cancel_reason,omitempty" db:"cancel_reason"`
}

type CreateAppointmentRequest struct {
	PatientID       uuid.UUID  `json:"patient_id" binding:"required"`
	DoctorID        uuid.UUID  `json:"doctor_id" binding:"required"`
	ClinicID        uuid.UUID  `json:"clinic_id" binding:"required"`
	DepartmentID    *uuid.UUID `json:"department_id"`
	AppointmentDate time.Time  `json:"appointment_date" binding:"required"`
	AppointmentTime string     `json:"appointment_time" binding:"required,clocktime"`
	IsEmergency     bool       `json:"is_emergency"`
	Notes           string     `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	AppointmentDate *time.Time `json:"appointment_date"`
	AppointmentTime *string    `json:"appointment_time" binding:"omitempty,clocktime"`
	Notes           *string    `json:"notes" binding:"omitempty,max=1000"`
}

type TransitionAppointmentRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
	Reason string            `json:"reason"`
}

type AppointmentFilters struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	ClinicID  uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
	Pagination
}
