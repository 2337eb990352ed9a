// Package fsm holds the allowed status transitions for appointments and
// consultations. Services consult these tables instead of scattering
// inline status checks.
package fsm

import (
	"fmt"

	"github.com/clinicore/clinic-api/internal/model"
)

// ErrIllegalTransition is returned when a status change is not in the table.
type ErrIllegalTransition struct {
	Entity string
	From   string
	To     string
}

func (e *ErrIllegalTransition) Error() string {
	return fmt.Sprintf("illegal %s transition: %s -> %s", e.Entity, e.From, e.To)
}

var appointmentTransitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusScheduled: {
		model.AppointmentStatusConfirmed,
		model.AppointmentStatusCancelled,
		model.AppointmentStatusNoShow,
	},
	model.AppointmentStatusConfirmed: {
		model.AppointmentStatusInProgress,
		model.AppointmentStatusCancelled,
		model.AppointmentStatusNoShow,
	},
	model.AppointmentStatusInProgress: {
		model.AppointmentStatusCompleted,
	},
}

var consultationTransitions = map[model.ConsultationStatus][]model.ConsultationStatus{
	model.ConsultationStatusPending: {
		model.ConsultationStatusInProgress,
		model.ConsultationStatusCancelled,
	},
	model.ConsultationStatusInProgress: {
		model.ConsultationStatusCompleted,
		model.ConsultationStatusCancelled,
	},
}

// CheckAppointment validates an appointment status transition.
func CheckAppointment(from, to model.AppointmentStatus) error {
	for _, allowed := range appointmentTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &ErrIllegalTransition{Entity: "appointment", From: string(from), To: string(to)}
}

// CheckConsultation validates a consultation status transition.
func CheckConsultation(from, to model.ConsultationStatus) error {
	for _, allowed := range consultationTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &ErrIllegalTransition{Entity: "consultation", From: string(from), To: string(to)}
}
