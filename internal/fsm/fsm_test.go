package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinicore/clinic-api/internal/model"
)

func TestAppointmentTransitions(t *testing.T) {
	assert.NoError(t, CheckAppointment(model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed))
	assert.NoError(t, CheckAppointment(model.AppointmentStatusScheduled, model.AppointmentStatusCancelled))
	assert.NoError(t, CheckAppointment(model.AppointmentStatusConfirmed, model.AppointmentStatusInProgress))
	assert.NoError(t, CheckAppointment(model.AppointmentStatusConfirmed, model.AppointmentStatusNoShow))
	assert.NoError(t, CheckAppointment(model.AppointmentStatusInProgress, model.AppointmentStatusCompleted))

	// Completing an appointment that was never confirmed is rejected
	assert.Error(t, CheckAppointment(model.AppointmentStatusScheduled, model.AppointmentStatusCompleted))
	// Terminal states have no exits
	assert.Error(t, CheckAppointment(model.AppointmentStatusCancelled, model.AppointmentStatusScheduled))
	assert.Error(t, CheckAppointment(model.AppointmentStatusCompleted, model.AppointmentStatusInProgress))
	assert.Error(t, CheckAppointment(model.AppointmentStatusNoShow, model.AppointmentStatusConfirmed))
	// Regression to an earlier state is rejected
	assert.Error(t, CheckAppointment(model.AppointmentStatusInProgress, model.AppointmentStatusScheduled))
}

func TestConsultationTransitions(t *testing.T) {
	assert.NoError(t, CheckConsultation(model.ConsultationStatusPending, model.ConsultationStatusInProgress))
	assert.NoError(t, CheckConsultation(model.ConsultationStatusPending, model.ConsultationStatusCancelled))
	assert.NoError(t, CheckConsultation(model.ConsultationStatusInProgress, model.ConsultationStatusCompleted))

	assert.Error(t, CheckConsultation(model.ConsultationStatusPending, model.ConsultationStatusCompleted))
	assert.Error(t, CheckConsultation(model.ConsultationStatusCompleted, model.ConsultationStatusInProgress))
	assert.Error(t, CheckConsultation(model.ConsultationStatusCancelled, model.ConsultationStatusPending))
}

func TestIllegalTransitionError(t *testing.T) {
	err := CheckAppointment(model.AppointmentStatusCancelled, model.AppointmentStatusConfirmed)
	assert.EqualError(t, err, "illegal appointment transition: CANCELLED -> CONFIRMED")
}
