package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/pkg/errors"
)

func (r *waitingListRepository) Create(ctx context.Context, entry *model.WaitingListEntry) error {
	query := `
		INSERT INTO waiting_list (
			id, patient_id, doctor_id, department_id, priority, notified,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.PatientID,
		entry.DoctorID,
		entry.DepartmentID,
		entry.Priority,
		entry.Notified,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create waiting list entry: %w", err)
	}
	return nil
}

func (r *waitingListRepository) Get(ctx context.Context, id uuid.UUID) (*model.WaitingListEntry, error) {
	query := `
		SELECT id, patient_id, doctor_id, department_id, priority, notified,
			   created_at, updated_at
		FROM waiting_list
		WHERE id = $1
	`
	var entry model.WaitingListEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("waiting list entry", err)
		}
		return nil, fmt.Errorf("failed to get waiting list entry: %w", err)
	}
	return &entry, nil
}

func (r *waitingListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM waiting_list WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete waiting list entry: %w", err)
	}
	return checkAffected(result, "waiting list entry")
}

func (r *waitingListRepository) List(ctx context.Context, filters *model.WaitingListFilters) ([]*model.WaitingListEntry, error) {
	query := `
		SELECT id, patient_id, doctor_id, department_id, priority, notified,
			   created_at, updated_at
		FROM waiting_list
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters.DoctorID != uuid.Nil {
		query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
		args = append(args, filters.DoctorID)
		argCount++
	}
	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}
	if filters.Notified != nil {
		query += fmt.Sprintf(" AND notified = $%d", argCount)
		args = append(args, *filters.Notified)
		argCount++
	}

	query += fmt.Sprintf(" ORDER BY priority DESC, created_at ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.PageSize, filters.Offset())

	var entries []*model.WaitingListEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list waiting list entries: %w", err)
	}
	return entries, nil
}

func (r *waitingListRepository) HasActiveEntry(ctx context.Context, patientID, doctorID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM waiting_list
			WHERE patient_id = $1 AND doctor_id = $2 AND notified = false
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, patientID, doctorID); err != nil {
		return false, fmt.Errorf("failed to check waiting list entry: %w", err)
	}
	return exists, nil
}

// SelectAndMarkNotified picks the next candidates for a doctor and flips
// their notified flag in one transaction. SKIP LOCKED keeps overlapping
// promoter ticks from double-notifying the same rows.
func (r *waitingListRepository) SelectAndMarkNotified(ctx context.Context, doctorID uuid.UUID, limit int) ([]*model.WaitingListEntry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin promotion transaction: %w", err)
	}
	defer tx.Rollback()

	selectQuery := `
		SELECT id, patient_id, doctor_id, department_id, priority, notified,
			   created_at, updated_at
		FROM waiting_list
		WHERE doctor_id = $1 AND notified = false
		ORDER BY priority DESC, created_at ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`
	var entries []*model.WaitingListEntry
	if err := tx.SelectContext(ctx, &entries, selectQuery, doctorID, limit); err != nil {
		return nil, fmt.Errorf("failed to select waiting list candidates: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
		entry.Notified = true
	}
	updateQuery := `UPDATE waiting_list SET notified = true, updated_at = $1 WHERE id = ANY($2)`
	if _, err := tx.ExecContext(ctx, updateQuery, time.Now(), pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to mark entries notified: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit promotion: %w", err)
	}
	return entries, nil
}

func (r *waitingListRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM waiting_list WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old waiting list entries: %w", err)
	}
	return result.RowsAffected()
}
