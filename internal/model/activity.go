package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Activity log severities
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// ActivityLog is an append-only audit row
type ActivityLog struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      *uuid.UUID      `json:"user_id" db:"user_id"`
	Type        string          `json:"type" db:"type"`
	Description string          `json:"description" db:"description"`
	EntityType  string          `json:"entity_type" db:"entity_type"`
	EntityID    *uuid.UUID      `json:"entity_id" db:"entity_id"`
	Severity    string          `json:"severity" db:"severity"`
	IPAddress   string          `json:"ip_address" db:"ip_address"`
	UserAgent   string          `json:"user_agent" db:"user_agent"`
	Before      json.RawMessage `json:"before" db:"before"`
	After       json.RawMessage `json:"after" db:"after"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

type ActivityLogFilters struct {
	UserID     uuid.UUID
	Type       string
	EntityType string
	Severity   string
	StartDate  time.Time
	EndDate    time.Time
	Pagination
}
