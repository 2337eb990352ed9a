package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification delivery channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
	ChannelInApp = "in_app"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

type Notification struct {
	Base
	UserID    uuid.UUID          `json:"user_id" db:"user_id"`
	Type      string             `json:"type" db:"type"`
	Title     string             `json:"title" db:"title"`
	Message   string             `json:"message" db:"message"`
	Priority  string             `json:"priority" db:"priority"`
	Channel   string             `json:"channel" db:"channel"`
	Status    NotificationStatus `json:"status" db:"status"`
	IsRead    bool               `json:"is_read" db:"is_read"`
	ReadAt    *time.Time         `json:"read_at" db:"read_at"`
	SentAt    *time.Time         `json:"sent_at" db:"sent_at"`
	ActionURL *string            `json:"action_url" db:"action_url"`
	Metadata  JSONMap            `json:"metadata" db:"metadata"`
}

type NotificationFilters struct {
	UserID     uuid.UUID
	UnreadOnly bool
	Type       string
	Pagination
}
