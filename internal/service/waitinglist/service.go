package waitinglist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/internal/service/activity"
	"github.com/clinicore/clinic-api/internal/service/notification"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

// Notifier is the slice of the notification service the promoter needs.
type Notifier interface {
	Send(ctx context.Context, req *notification.SendRequest) (*model.Notification, error)
}

type Service struct {
	repo      repository.WaitingListRepository
	notifier  Notifier
	auditor   *activity.Service
	batchSize int
}

func NewService(repo repository.WaitingListRepository, notifier Notifier, auditor *activity.Service, batchSize int) *Service {
	if batchSize <= 0 {
		batchSize = 5
	}
	return &Service{repo: repo, notifier: notifier, auditor: auditor, batchSize: batchSize}
}

func (s *Service) Join(ctx context.Context, actorID uuid.UUID, req *model.CreateWaitingListRequest) (*model.WaitingListEntry, error) {
	active, err := s.repo.HasActiveEntry(ctx, req.PatientID, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check waiting list: %w", err)
	}
	if active {
		return nil, apperrors.Conflict("patient is already on this doctor's waiting list", nil)
	}

	entry := &model.WaitingListEntry{
		PatientID:    req.PatientID,
		DoctorID:     req.DoctorID,
		DepartmentID: req.DepartmentID,
		Priority:     req.Priority,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to join waiting list: %w", err)
	}

	s.auditor.Log(ctx, &actorID, "waitinglist.joined", "patient joined waiting list", "waiting_list", &entry.ID, nil)
	return entry, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.WaitingListEntry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("waiting list entry", err)
	}
	return entry, nil
}

func (s *Service) List(ctx context.Context, filters *model.WaitingListFilters) ([]*model.WaitingListEntry, error) {
	filters.Normalize()
	return s.repo.List(ctx, filters)
}

func (s *Service) Leave(ctx context.Context, actorID, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return apperrors.NotFound("waiting list entry", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to leave waiting list: %w", err)
	}
	s.auditor.Log(ctx, &actorID, "waitinglist.left", "patient left waiting list", "waiting_list", &id, nil)
	return nil
}

// PromoteForDoctor notifies the highest-priority unnotified entries for a
// doctor that a slot has opened. Selection and marking happen in one
// transaction with row locks, so concurrent promoter runs never notify the
// same patient twice. Returns the number of entries promoted.
func (s *Service) PromoteForDoctor(ctx context.Context, doctorID uuid.UUID) (int, error) {
	entries, err := s.repo.SelectAndMarkNotified(ctx, doctorID, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to promote waiting list entries: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	// Delivery happens after commit. A failed notification surfaces in
	// the user's unread feed, not by re-promoting the entry.
	for _, entry := range entries {
		_, err := s.notifier.Send(ctx, &notification.SendRequest{
			UserID:  entry.PatientID,
			Type:    "waiting_list.slot_available",
			Title:   "A slot has opened up",
			Message: "A time slot with your doctor has become available. Book now to claim it.",
			Channel: model.ChannelInApp,
			Metadata: model.JSONMap{
				"doctor_id": entry.DoctorID.String(),
				"entry_id":  entry.ID.String(),
			},
		})
		if err != nil {
			log.Error().Err(err).
				Str("entry_id", entry.ID.String()).
				Msg("failed to notify promoted waiting list entry")
		}
	}
	return len(entries), nil
}
