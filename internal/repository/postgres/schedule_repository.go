package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"edubatch/internal/domain"
)

// ScheduleRepository implements domain.ScheduleRepository for PostgreSQL
type ScheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new PostgreSQL class schedule repository
func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create inserts a new class schedule into the database
func (r *ScheduleRepository) Create(ctx context.Context, schedule *domain.ClassSchedule) error {
	query := `
		INSERT INTO class_schedules (batch_id, day, start_time, end_time, topic, created_by, updated_by, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		schedule.BatchID,
		schedule.Day,
		schedule.StartTime,
		schedule.EndTime,
		schedule.Topic,
		schedule.CreatedBy,
		schedule.UpdatedBy,
	).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "class_schedules_batch_id_day_start_time_key") {
			return domain.ErrScheduleExists
		}
		return fmt.Errorf("failed to create class schedule: %w", err)
	}

	schedule.IsActive = true
	return nil
}

// GetByID retrieves a schedule by ID, scoped to its batch
func (r *ScheduleRepository) GetByID(ctx context.Context, id, batchID int64) (*domain.ClassSchedule, error) {
	query := `
		SELECT id, batch_id, day, start_time, end_time, topic, created_at, created_by, updated_at, updated_by, is_active
		FROM class_schedules
		WHERE id = $1 AND batch_id = $2
	`
	schedule := &domain.ClassSchedule{}
	err := r.db.QueryRowContext(ctx, query, id, batchID).Scan(
		&schedule.ID,
		&schedule.BatchID,
		&schedule.Day,
		&schedule.StartTime,
		&schedule.EndTime,
		&schedule.Topic,
		&schedule.CreatedAt,
		&schedule.CreatedBy,
		&schedule.UpdatedAt,
		&schedule.UpdatedBy,
		&schedule.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class schedule: %w", err)
	}
	return schedule, nil
}

// GetByBatchAndSlot retrieves the schedule occupying a given weekly slot
func (r *ScheduleRepository) GetByBatchAndSlot(ctx context.Context, batchID int64, day int, startTime string) (*domain.ClassSchedule, error) {
	query := `
		SELECT id, batch_id, day, start_time, end_time, topic, created_at, created_by, updated_at, updated_by, is_active
		FROM class_schedules
		WHERE batch_id = $1 AND day = $2 AND start_time = $3
	`
	schedule := &domain.ClassSchedule{}
	err := r.db.QueryRowContext(ctx, query, batchID, day, startTime).Scan(
		&schedule.ID,
		&schedule.BatchID,
		&schedule.Day,
		&schedule.StartTime,
		&schedule.EndTime,
		&schedule.Topic,
		&schedule.CreatedAt,
		&schedule.CreatedBy,
		&schedule.UpdatedAt,
		&schedule.UpdatedBy,
		&schedule.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class schedule by slot: %w", err)
	}
	return schedule, nil
}

// ListByBatch retrieves all schedules of a batch ordered by day and time
func (r *ScheduleRepository) ListByBatch(ctx context.Context, batchID int64) ([]*domain.ClassSchedule, error) {
	query := `
		SELECT id, batch_id, day, start_time, end_time, topic, created_at, created_by, updated_at, updated_by, is_active
		FROM class_schedules
		WHERE batch_id = $1
		ORDER BY day, start_time
	`
	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query class schedules: %w", err)
	}
	defer rows.Close()

	schedules := make([]*domain.ClassSchedule, 0)
	for rows.Next() {
		schedule := &domain.ClassSchedule{}
		err := rows.Scan(
			&schedule.ID,
			&schedule.BatchID,
			&schedule.Day,
			&schedule.StartTime,
			&schedule.EndTime,
			&schedule.Topic,
			&schedule.CreatedAt,
			&schedule.CreatedBy,
			&schedule.UpdatedAt,
			&schedule.UpdatedBy,
			&schedule.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan class schedule: %w", err)
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating class schedules: %w", err)
	}
	return schedules, nil
}

// Update rewrites the mutable fields of a schedule
func (r *ScheduleRepository) Update(ctx context.Context, schedule *domain.ClassSchedule) error {
	query := `
		UPDATE class_schedules
		SET day = $1, start_time = $2, end_time = $3, topic = $4, updated_by = $5, updated_at = NOW(), is_active = $6
		WHERE id = $7 AND batch_id = $8
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		schedule.Day,
		schedule.StartTime,
		schedule.EndTime,
		schedule.Topic,
		schedule.UpdatedBy,
		schedule.IsActive,
		schedule.ID,
		schedule.BatchID,
	).Scan(&schedule.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrScheduleNotFound
	}
	if err != nil {
		if isUniqueViolation(err, "class_schedules_batch_id_day_start_time_key") {
			return domain.ErrScheduleExists
		}
		return fmt.Errorf("failed to update class schedule: %w", err)
	}
	return nil
}

// Delete removes a schedule row, scoped to its batch
func (r *ScheduleRepository) Delete(ctx context.Context, id, batchID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM class_schedules WHERE id = $1 AND batch_id = $2`, id, batchID)
	if err != nil {
		return fmt.Errorf("failed to delete class schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete class schedule: %w", err)
	}
	if affected == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}
