package model

import (
	"github.com/google/uuid"
)

type Clinic struct {
	Base
	Name         string  `json:"name" db:"name"`
	Address      string  `json:"address" db:"address"`
	Phone        string  `json:"phone" db:"phone"`
	Email        string  `json:"email" db:"email"`
	WorkingHours JSONMap `json:"working_hours" db:"working_hours"`
	IsActive     bool    `json:"is_active" db:"is_active"`
}

type Department struct {
	Base
	ClinicID uuid.UUID `json:"clinic_id" db:"clinic_id"`
	Name     string    `json:"name" db:"name"`
	IsActive bool      `json:"is_active" db:"is_active"`
}

type Specialty struct {
	Base
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	IsActive    bool   `json:"is_active" db:"is_active"`
}

type CreateClinicRequest struct {
	Name         string  `json:"name" binding:"required"`
	Address      string  `json:"address" binding:"required"`
	Phone        string  `json:"phone" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	WorkingHours JSONMap `json:"working_hours"`
}

type UpdateClinicRequest struct {
	Name         *string `json:"name"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email" binding:"omitempty,email"`
	WorkingHours JSONMap `json:"working_hours"`
	IsActive     *bool   `json:"is_active"`
}

type CreateDepartmentRequest struct {
	ClinicID uuid.UUID `json:"clinic_id" binding:"required"`
	Name     string    `json:"name" binding:"required"`
}

type CreateSpecialtyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}
