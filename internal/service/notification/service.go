package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
	"github.com/clinicore/clinic-api/pkg/metrics"
)

// SendRequest describes a notification to deliver
type SendRequest struct {
	UserID    uuid.UUID
	Type      string
	Title     string
	Message   string
	Priority  string
	Channel   string
	ActionURL *string
	Metadata  model.JSONMap
}

// Service persists notifications and dispatches them through the sender
// registered for the requested channel. Unknown channels fail the request;
// known channels without a backend persist the row marked failed.
type Service struct {
	repo    repository.NotificationRepository
	users   repository.UserRepository
	senders map[string]Sender
	metrics *metrics.Metrics
}

func NewService(repo repository.NotificationRepository, users repository.UserRepository, m *metrics.Metrics, senders ...Sender) *Service {
	byChannel := make(map[string]Sender, len(senders))
	for _, s := range senders {
		byChannel[s.Channel()] = s
	}
	return &Service{repo: repo, users: users, senders: byChannel, metrics: m}
}

func (s *Service) Send(ctx context.Context, req *SendRequest) (*model.Notification, error) {
	sender, ok := s.senders[req.Channel]
	if !ok {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown notification channel: %s", req.Channel), nil)
	}

	user, err := s.users.Get(ctx, req.UserID)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}

	n := &model.Notification{
		UserID:    req.UserID,
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		Priority:  req.Priority,
		Channel:   req.Channel,
		Status:    model.NotificationStatusPending,
		ActionURL: req.ActionURL,
		Metadata:  req.Metadata,
	}
	if n.Priority == "" {
		n.Priority = "normal"
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to store notification: %w", err)
	}

	if err := sender.Send(ctx, user, n); err != nil {
		log.Error().Err(err).
			Str("channel", req.Channel).
			Str("user_id", req.UserID.String()).
			Msg("notification delivery failed")
		n.Status = model.NotificationStatusFailed
		if s.metrics != nil {
			s.metrics.NotificationsFailed.WithLabelValues(req.Channel).Inc()
		}
	} else {
		now := time.Now()
		n.Status = model.NotificationStatusSent
		n.SentAt = &now
		if s.metrics != nil {
			s.metrics.NotificationsSent.WithLabelValues(req.Channel).Inc()
		}
	}

	if err := s.repo.Update(ctx, n); err != nil {
		log.Error().Err(err).Str("notification_id", n.ID.String()).Msg("failed to update notification status")
	}
	return n, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("notification", err)
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, filters *model.NotificationFilters) ([]*model.Notification, error) {
	filters.Normalize()
	return s.repo.List(ctx, filters)
}

func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return apperrors.NotFound("notification", err)
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
