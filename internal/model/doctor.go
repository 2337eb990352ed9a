package model

import (
	"github.com/google/uuid"
)

// Doctor links a user to a clinic with professional details
type Doctor struct {
	Base
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	ClinicID        uuid.UUID  `json:"clinic_id" db:"clinic_id"`
	DepartmentID    *uuid.UUID `json:"department_id" db:"department_id"`
	SpecialtyID     *uuid.UUID `json:"specialty_id" db:"specialty_id"`
	Specialization  string     `json:"specialization" db:"specialization"`
	LicenseNumber   string     `json:"license_number" db:"license_number"`
	ExperienceYears int        `json:"experience_years" db:"experience_years"`
	ConsultationFee float64    `json:"consultation_fee" db:"consultation_fee"`
	IsAvailable     bool       `json:"is_available" db:"is_available"`
	RatingAverage   float64    `json:"rating_average" db:"rating_average"`
	RatingCount     int        `json:"rating_count" db:"rating_count"`
}

// Schedule defines a recurring weekly availability window for a doctor.
// StartTime and EndTime are wall-clock values in "15:04" format.
type Schedule struct {
	Base
	DoctorID  uuid.UUID `json:"doctor_id" db:"doctor_id"`
	DayOfWeek int       `json:"day_of_week" db:"day_of_week"`
	StartTime string    `json:"start_time" db:"start_time"`
	EndTime   string    `json:"end_time" db:"end_time"`
	IsActive  bool      `json:"is_active" db:"is_active"`
}

// TimeSlot is a bookable appointment time
type TimeSlot struct {
	Time string `json:"time"`
}

type CreateDoctorRequest struct {
	UserID          uuid.UUID  `json:"user_id" binding:"required"`
	ClinicID        uuid.UUID  `json:"clinic_id" binding:"required"`
	DepartmentID    *uuid.UUID `json:"department_id"`
	SpecialtyID     *uuid.UUID `json:"specialty_id"`
	Specialization  string     `json:"specialization" binding:"required"`
	LicenseNumber   string     `json:"license_number" binding:"required"`
	ExperienceYears int        `json:"experience_years" binding:"gte=0"`
	ConsultationFee float64    `json:"consultation_fee" binding:"gte=0"`
}

type UpdateDoctorRequest struct {
	DepartmentID    *uuid.UUID `json:"department_id"`
	SpecialtyID     *uuid.UUID `json:"specialty_id"`
	Specialization  *string    `json:"specialization"`
	ExperienceYears *int       `json:"experience_years" binding:"omitempty,gte=0"`
	ConsultationFee *float64   `json:"consultation_fee" binding:"omitempty,gte=0"`
	IsAvailable     *bool      `json:"is_available"`
}

type CreateScheduleRequest struct {
	DayOfWeek int    `json:"day_of_week" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required,clocktime"`
	EndTime   string `json:"end_time" binding:"required,clocktime"`
}

type DoctorFilters struct {
	ClinicID     uuid.UUID
	DepartmentID uuid.UUID
	SpecialtyID  uuid.UUID
	Available    *bool
	SearchTerm   string
	Pagination
}
