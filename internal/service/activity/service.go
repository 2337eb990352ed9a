package activity

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
)

// LogOptions carries the optional fields of an audit entry
type LogOptions struct {
	Severity  string
	IPAddress string
	UserAgent string
	Before    interface{}
	After     interface{}
}

// Service writes append-only audit rows. Logging failures are reported but
// never propagated to the caller; an audit miss must not fail the request.
type Service struct {
	repo repository.ActivityLogRepository
}

func NewService(repo repository.ActivityLogRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Log(ctx context.Context, userID *uuid.UUID, logType, description, entityType string, entityID *uuid.UUID, opts *LogOptions) {
	entry := &model.ActivityLog{
		UserID:      userID,
		Type:        logType,
		Description: description,
		EntityType:  entityType,
		EntityID:    entityID,
		Severity:    model.SeverityInfo,
	}

	if opts != nil {
		if opts.Severity != "" {
			entry.Severity = opts.Severity
		}
		entry.IPAddress = opts.IPAddress
		entry.UserAgent = opts.UserAgent
		entry.Before = marshal(opts.Before)
		entry.After = marshal(opts.After)
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("type", logType).Msg("failed to write activity log")
	}
}

func (s *Service) List(ctx context.Context, filters *model.ActivityLogFilters) ([]*model.ActivityLog, int, error) {
	filters.Normalize()
	return s.repo.List(ctx, filters)
}

func marshal(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
