package model

import (
	"time"

	"github.com/google/uuid"
)

type ConsultationStatus string

const (
	ConsultationStatusPending    ConsultationStatus = "PENDING"
	ConsultationStatusInProgress ConsultationStatus = "IN_PROGRESS"
	ConsultationStatusCompleted  ConsultationStatus = "COMPLETED"
	ConsultationStatusCancelled  ConsultationStatus = "CANCELLED"
)

// Consultation is the clinical encounter tied 1:1 to an appointment
type Consultation struct {
	Base
	AppointmentID uuid.UUID          `json:"appointment_id" db:"appointment_id"`
	Status        ConsultationStatus `json:"status" db:"status"`
	StartedAt     *time.Time         `json:"started_at" db:"started_at"`
	EndedAt       *time.Time         `json:"ended_at" db:"ended_at"`
	CancelledAt   *time.Time         `json:"cancelled_at" db:"cancelled_at"`
	Notes         string             `json:"notes" db:"notes"`
}

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeFile  MessageType = "file"
	MessageTypeImage MessageType = "image"
)

// Message is a single chat entry within a consultation
type Message struct {
	Base
	ConsultationID uuid.UUID   `json:"consultation_id" db:"consultation_id"`
	SenderID       uuid.UUID   `json:"sender_id" db:"sender_id"`
	Content        string      `json:"content" db:"content"`
	MessageType    MessageType `json:"message_type" db:"message_type"`
	FileURL        *string     `json:"file_url" db:"file_url"`
	IsRead         bool        `json:"is_read" db:"is_read"`
	ReadAt         *time.Time  `json:"read_at" db:"read_at"`
}

type CreateConsultationRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" binding:"required"`
	Notes         string    `json:"notes"`
}

type CreateMessageRequest struct {
	Content     string      `json:"content" binding:"required,max=4000"`
	MessageType MessageType `json:"message_type" binding:"omitempty,oneof=text file image"`
	FileURL     *string     `json:"file_url"`
}

type MessageFilters struct {
	ConsultationID uuid.UUID
	UnreadOnly     bool
	Pagination
}
