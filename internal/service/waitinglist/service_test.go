package waitinglist

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/internal/service/activity"
	"github.com/clinicore/clinic-api/internal/service/notification"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type fakeWaitingListRepo struct {
	repository.WaitingListRepository
	entries []*model.WaitingListEntry
}

func (f *fakeWaitingListRepo) Create(_ context.Context, entry *model.WaitingListEntry) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeWaitingListRepo) HasActiveEntry(_ context.Context, patientID, doctorID uuid.UUID) (bool, error) {
	for _, e := range f.entries {
		if e.PatientID == patientID && e.DoctorID == doctorID && !e.Notified {
			return true, nil
		}
	}
	return false, nil
}

// SelectAndMarkNotified mirrors the database ordering: priority descending,
// then age ascending, unnotified rows only.
func (f *fakeWaitingListRepo) SelectAndMarkNotified(_ context.Context, doctorID uuid.UUID, limit int) ([]*model.WaitingListEntry, error) {
	var candidates []*model.WaitingListEntry
	for _, e := range f.entries {
		if e.DoctorID == doctorID && !e.Notified {
			candidates = append(candidates, e)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	for _, e := range candidates {
		e.Notified = true
	}
	return candidates, nil
}

type fakeNotifier struct {
	sent []*notification.SendRequest
}

func (f *fakeNotifier) Send(_ context.Context, req *notification.SendRequest) (*model.Notification, error) {
	f.sent = append(f.sent, req)
	return &model.Notification{}, nil
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(context.Context, *model.ActivityLog) error { return nil }
func (fakeAuditRepo) List(context.Context, *model.ActivityLogFilters) ([]*model.ActivityLog, int, error) {
	return nil, 0, nil
}
func (fakeAuditRepo) DeleteBefore(context.Context, time.Time) (int64, error) { return 0, nil }

func newFixture(batchSize int) (*Service, *fakeWaitingListRepo, *fakeNotifier) {
	repo := &fakeWaitingListRepo{}
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier, activity.NewService(fakeAuditRepo{}), batchSize)
	return svc, repo, notifier
}

func addEntry(repo *fakeWaitingListRepo, doctorID uuid.UUID, priority int, age time.Duration) *model.WaitingListEntry {
	entry := &model.WaitingListEntry{
		Base:      model.Base{ID: uuid.New(), CreatedAt: time.Now().Add(-age)},
		PatientID: uuid.New(),
		DoctorID:  doctorID,
		Priority:  priority,
	}
	repo.entries = append(repo.entries, entry)
	return entry
}

func TestJoin_RejectsDuplicateActiveEntry(t *testing.T) {
	svc, repo, _ := newFixture(5)
	doctorID := uuid.New()
	patientID := uuid.New()

	_, err := svc.Join(context.Background(), uuid.New(), &model.CreateWaitingListRequest{
		PatientID: patientID,
		DoctorID:  doctorID,
	})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)

	_, err = svc.Join(context.Background(), uuid.New(), &model.CreateWaitingListRequest{
		PatientID: patientID,
		DoctorID:  doctorID,
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestJoin_AllowedAgainAfterNotification(t *testing.T) {
	svc, repo, _ := newFixture(5)
	doctorID := uuid.New()
	entry := addEntry(repo, doctorID, 0, time.Hour)
	entry.Notified = true

	_, err := svc.Join(context.Background(), uuid.New(), &model.CreateWaitingListRequest{
		PatientID: entry.PatientID,
		DoctorID:  doctorID,
	})
	require.NoError(t, err)
}

func TestPromoteForDoctor_RespectsBatchSize(t *testing.T) {
	svc, repo, notifier := newFixture(5)
	doctorID := uuid.New()
	for i := 0; i < 8; i++ {
		addEntry(repo, doctorID, 0, time.Duration(8-i)*time.Hour)
	}

	promoted, err := svc.PromoteForDoctor(context.Background(), doctorID)
	require.NoError(t, err)
	assert.Equal(t, 5, promoted)
	assert.Len(t, notifier.sent, 5)
}

func TestPromoteForDoctor_PriorityThenAge(t *testing.T) {
	svc, repo, notifier := newFixture(2)
	doctorID := uuid.New()
	low := addEntry(repo, doctorID, 1, 3*time.Hour)
	urgentOld := addEntry(repo, doctorID, 9, 2*time.Hour)
	urgentNew := addEntry(repo, doctorID, 9, time.Hour)

	promoted, err := svc.PromoteForDoctor(context.Background(), doctorID)
	require.NoError(t, err)
	assert.Equal(t, 2, promoted)

	require.Len(t, notifier.sent, 2)
	assert.Equal(t, urgentOld.PatientID, notifier.sent[0].UserID)
	assert.Equal(t, urgentNew.PatientID, notifier.sent[1].UserID)
	assert.False(t, low.Notified)
}

func TestPromoteForDoctor_NeverRenotifies(t *testing.T) {
	svc, repo, notifier := newFixture(5)
	doctorID := uuid.New()
	addEntry(repo, doctorID, 0, time.Hour)

	promoted, err := svc.PromoteForDoctor(context.Background(), doctorID)
	require.NoError(t, err)
	assert.Equal(t, 1, promoted)

	promoted, err = svc.PromoteForDoctor(context.Background(), doctorID)
	require.NoError(t, err)
	assert.Zero(t, promoted)
	assert.Len(t, notifier.sent, 1)
}

func TestPromoteForDoctor_IgnoresOtherDoctors(t *testing.T) {
	svc, repo, notifier := newFixture(5)
	doctorID := uuid.New()
	addEntry(repo, uuid.New(), 5, time.Hour)

	promoted, err := svc.PromoteForDoctor(context.Background(), doctorID)
	require.NoError(t, err)
	assert.Zero(t, promoted)
	assert.Empty(t, notifier.sent)
}
