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

const doctorColumns = `
	id, user_id, clinic_id, department_id, specialty_id, specialization,
	license_number, experience_years, consultation_fee, is_available,
	rating_average, rating_count, created_at, updated_at`

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, user_id, clinic_id, department_id, specialty_id, specialization,
			license_number, experience_years, consultation_fee, is_available,
			rating_average, rating_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.UserID,
		doctor.ClinicID,
		doctor.DepartmentID,
		doctor.SpecialtyID,
		doctor.Specialization,
		doctor.LicenseNumber,
		doctor.ExperienceYears,
		doctor.ConsultationFee,
		doctor.IsAvailable,
		doctor.RatingAverage,
		doctor.RatingCount,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var doctor model.Doctor
	query := `SELECT` + doctorColumns + ` FROM doctors WHERE id = $1`
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	var doctor model.Doctor
	query := `SELECT` + doctorColumns + ` FROM doctors WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &doctor, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor by user: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET department_id = $1, specialty_id = $2, specialization = $3,
			experience_years = $4, consultation_fee = $5, is_available = $6,
			rating_average = $7, rating_count = $8, updated_at = $9
		WHERE id = $10
	`
	doctor.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		doctor.DepartmentID,
		doctor.SpecialtyID,
		doctor.Specialization,
		doctor.ExperienceYears,
		doctor.ConsultationFee,
		doctor.IsAvailable,
		doctor.RatingAverage,
		doctor.RatingCount,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	return checkAffected(result, "doctor")
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	return checkAffected(result, "doctor")
}

func (r *doctorRepository) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filters.ClinicID != uuid.Nil {
		where += fmt.Sprintf(" AND clinic_id = $%d", argCount)
		args = append(args, filters.ClinicID)
		argCount++
	}
	if filters.DepartmentID != uuid.Nil {
		where += fmt.Sprintf(" AND department_id = $%d", argCount)
		args = append(args, filters.DepartmentID)
		argCount++
	}
	if filters.SpecialtyID != uuid.Nil {
		where += fmt.Sprintf(" AND specialty_id = $%d", argCount)
		args = append(args, filters.SpecialtyID)
		argCount++
	}
	if filters.Available != nil {
		where += fmt.Sprintf(" AND is_available = $%d", argCount)
		args = append(args, *filters.Available)
		argCount++
	}
	if filters.SearchTerm != "" {
		where += fmt.Sprintf(" AND specialization ILIKE $%d", argCount)
		args = append(args, "%"+filters.SearchTerm+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM doctors"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count doctors: %w", err)
	}

	query := `SELECT` + doctorColumns + ` FROM doctors` + where +
		fmt.Sprintf(" ORDER BY rating_average DESC, created_at ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.PageSize, filters.Offset())

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, total, nil
}

func (r *doctorRepository) CreateSchedule(ctx context.Context, schedule *model.Schedule) error {
	query := `
		INSERT INTO schedules (
			id, doctor_id, day_of_week, start_time, end_time, is_active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	schedule.ID = uuid.New()
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		schedule.ID,
		schedule.DoctorID,
		schedule.DayOfWeek,
		schedule.StartTime,
		schedule.EndTime,
		schedule.IsActive,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (r *doctorRepository) ListSchedules(ctx context.Context, doctorID uuid.UUID) ([]*model.Schedule, error) {
	query := `
		SELECT id, doctor_id, day_of_week, start_time, end_time, is_active,
			   created_at, updated_at
		FROM schedules
		WHERE doctor_id = $1
		ORDER BY day_of_week ASC, start_time ASC
	`
	var schedules []*model.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

func (r *doctorRepository) GetScheduleForDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) (*model.Schedule, error) {
	query := `
		SELECT id, doctor_id, day_of_week, start_time, end_time, is_active,
			   created_at, updated_at
		FROM schedules
		WHERE doctor_id = $1 AND day_of_week = $2 AND is_active = true
		ORDER BY start_time ASC
		LIMIT 1
	`
	var schedule model.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, doctorID, dayOfWeek); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

func (r *doctorRepository) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return checkAffected(result, "schedule")
}
