package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"edubatch/internal/domain"
)

// BatchRepository implements domain.BatchRepository for PostgreSQL
type BatchRepository struct {
	db *sql.DB
}

// NewBatchRepository creates a new PostgreSQL batch repository
func NewBatchRepository(db *sql.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// Create inserts a new batch into the database
func (r *BatchRepository) Create(ctx context.Context, batch *domain.Batch) error {
	query := `
		INSERT INTO batches (name, syllabus_ids, start_date, end_date, mentor_id, created_by, updated_by, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		batch.Name,
		pq.Array(batch.SyllabusIDs),
		batch.StartDate,
		batch.EndDate,
		batch.MentorID,
		batch.CreatedBy,
		batch.UpdatedBy,
	).Scan(&batch.ID, &batch.CreatedAt, &batch.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}

	batch.IsActive = true
	return nil
}

// GetByID retrieves a batch by ID
func (r *BatchRepository) GetByID(ctx context.Context, id int64) (*domain.Batch, error) {
	query := `
		SELECT id, name, syllabus_ids, start_date, end_date, mentor_id, created_at, created_by, updated_at, updated_by, is_active
		FROM batches
		WHERE id = $1
	`
	batch := &domain.Batch{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&batch.ID,
		&batch.Name,
		pq.Array(&batch.SyllabusIDs),
		&batch.StartDate,
		&batch.EndDate,
		&batch.MentorID,
		&batch.CreatedAt,
		&batch.CreatedBy,
		&batch.UpdatedAt,
		&batch.UpdatedBy,
		&batch.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch by ID: %w", err)
	}
	return batch, nil
}

// List retrieves all active batches
func (r *BatchRepository) List(ctx context.Context) ([]*domain.Batch, error) {
	query := `
		SELECT id, name, syllabus_ids, start_date, end_date, mentor_id, created_at, created_by, updated_at, updated_by, is_active
		FROM batches
		WHERE is_active = TRUE
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	batches := make([]*domain.Batch, 0)
	for rows.Next() {
		batch := &domain.Batch{}
		err := rows.Scan(
			&batch.ID,
			&batch.Name,
			pq.Array(&batch.SyllabusIDs),
			&batch.StartDate,
			&batch.EndDate,
			&batch.MentorID,
			&batch.CreatedAt,
			&batch.CreatedBy,
			&batch.UpdatedAt,
			&batch.UpdatedBy,
			&batch.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, batch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batches: %w", err)
	}
	return batches, nil
}

// Update rewrites the mutable fields of a batch
func (r *BatchRepository) Update(ctx context.Context, batch *domain.Batch) error {
	query := `
		UPDATE batches
		SET name = $1, syllabus_ids = $2, start_date = $3, end_date = $4, mentor_id = $5, updated_by = $6, updated_at = NOW(), is_active = $7
		WHERE id = $8
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		batch.Name,
		pq.Array(batch.SyllabusIDs),
		batch.StartDate,
		batch.EndDate,
		batch.MentorID,
		batch.UpdatedBy,
		batch.IsActive,
		batch.ID,
	).Scan(&batch.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrBatchNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update batch: %w", err)
	}
	return nil
}

// Delete removes a batch together with its schedules and enrollments, in one
// transaction so a half-deleted batch is never observable.
func (r *BatchRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM class_schedules WHERE batch_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete batch schedules: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM batch_students WHERE batch_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete batch enrollments: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}
	if affected == 0 {
		return domain.ErrBatchNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch delete: %w", err)
	}
	return nil
}
