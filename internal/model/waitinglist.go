package model

import (
	"github.com/google/uuid"
)

// WaitingListEntry queues a patient for a slot with a doctor.
// Higher priority values are served first, ties break on creation time.
type WaitingListEntry struct {
	Base
	PatientID    uuid.UUID  `json:"patient_id" db:"patient_id"`
	DoctorID     uuid.UUID  `json:"doctor_id" db:"doctor_id"`
	DepartmentID *uuid.UUID `json:"department_id" db:"department_id"`
	Priority     int        `json:"priority" db:"priority"`
	Notified     bool       `json:"notified" db:"notified"`
}

type CreateWaitingListRequest struct {
	PatientID    uuid.UUID  `json:"patient_id" binding:"required"`
	DoctorID     uuid.UUID  `json:"doctor_id" binding:"required"`
	DepartmentID *uuid.UUID `json:"department_id"`
	Priority     int        `json:"priority" binding:"gte=0,lte=10"`
}

type WaitingListFilters struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Notified  *bool
	Pagination
}
