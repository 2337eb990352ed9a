package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/pkg/errors"
)

const consultationColumns = `
	id, appointment_id, status, started_at, ended_at, cancelled_at, notes,
	created_at, updated_at`

func (r *consultationRepository) Create(ctx context.Context, consultation *model.Consultation) error {
	query := `
		INSERT INTO consultations (
			id, appointment_id, status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	consultation.ID = uuid.New()
	consultation.CreatedAt = time.Now()
	consultation.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		consultation.ID,
		consultation.AppointmentID,
		consultation.Status,
		consultation.Notes,
		consultation.CreatedAt,
		consultation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create consultation: %w", err)
	}
	return nil
}

func (r *consultationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Consultation, error) {
	var consultation model.Consultation
	query := `SELECT` + consultationColumns + ` FROM consultations WHERE id = $1`
	if err := r.db.GetContext(ctx, &consultation, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("consultation", err)
		}
		return nil, fmt.Errorf("failed to get consultation: %w", err)
	}
	return &consultation, nil
}

func (r *consultationRepository) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Consultation, error) {
	var consultation model.Consultation
	query := `SELECT` + consultationColumns + ` FROM consultations WHERE appointment_id = $1`
	if err := r.db.GetContext(ctx, &consultation, query, appointmentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("consultation", err)
		}
		return nil, fmt.Errorf("failed to get consultation by appointment: %w", err)
	}
	return &consultation, nil
}

func (r *consultationRepository) Update(ctx context.Context, consultation *model.Consultation) error {
	query := `
		UPDATE consultations
		SET status = $1, started_at = $2, ended_at = $3, cancelled_at = $4,
			notes = $5, updated_at = $6
		WHERE id = $7
	`
	consultation.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		consultation.Status,
		consultation.StartedAt,
		consultation.EndedAt,
		consultation.CancelledAt,
		consultation.Notes,
		consultation.UpdatedAt,
		consultation.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update consultation: %w", err)
	}
	return checkAffected(result, "consultation")
}
