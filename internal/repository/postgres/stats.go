package postgres

import (
	"context"
	"fmt"
	"time"
)

type countRow struct {
	Key   string `db:"key"`
	Count int    `db:"count"`
}

func (r *statsRepository) CountUsersByRole(ctx context.Context) (map[string]int, error) {
	query := `SELECT role AS key, COUNT(*) AS count FROM users GROUP BY role`
	return r.countMap(ctx, query, "failed to count users by role")
}

func (r *statsRepository) CountAppointmentsByStatus(ctx context.Context) (map[string]int, error) {
	query := `SELECT status AS key, COUNT(*) AS count FROM appointments GROUP BY status`
	return r.countMap(ctx, query, "failed to count appointments by status")
}

func (r *statsRepository) CountAppointmentsOn(ctx context.Context, day time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM appointments WHERE appointment_date = $1`
	if err := r.db.GetContext(ctx, &count, query, day); err != nil {
		return 0, fmt.Errorf("failed to count appointments for day: %w", err)
	}
	return count, nil
}

func (r *statsRepository) CountClinics(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM clinics WHERE is_active = true`); err != nil {
		return 0, fmt.Errorf("failed to count clinics: %w", err)
	}
	return count, nil
}

func (r *statsRepository) CountDoctors(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM doctors`); err != nil {
		return 0, fmt.Errorf("failed to count doctors: %w", err)
	}
	return count, nil
}

func (r *statsRepository) countMap(ctx context.Context, query, errMsg string) (map[string]int, error) {
	var rows []countRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}
