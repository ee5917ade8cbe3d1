package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"edubatch/internal/domain"
)

// EnrollmentRepository implements domain.EnrollmentRepository for PostgreSQL
type EnrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a new PostgreSQL enrollment repository
func NewEnrollmentRepository(db *sql.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts a new batch-student mapping
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	query := `
		INSERT INTO batch_students (batch_id, student_id, joined_at, created_by, updated_by)
		VALUES ($1, $2, NOW(), $3, $4)
		RETURNING id, joined_at, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		enrollment.BatchID,
		enrollment.StudentID,
		enrollment.CreatedBy,
		enrollment.UpdatedBy,
	).Scan(&enrollment.ID, &enrollment.JoinedAt, &enrollment.CreatedAt, &enrollment.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "batch_students_batch_id_student_id_key") {
			return domain.ErrAlreadyEnrolled
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

// GetByID retrieves an enrollment by ID
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*domain.Enrollment, error) {
	query := `
		SELECT id, batch_id, student_id, joined_at, created_at, created_by, updated_at, updated_by
		FROM batch_students
		WHERE id = $1
	`
	enrollment := &domain.Enrollment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&enrollment.ID,
		&enrollment.BatchID,
		&enrollment.StudentID,
		&enrollment.JoinedAt,
		&enrollment.CreatedAt,
		&enrollment.CreatedBy,
		&enrollment.UpdatedAt,
		&enrollment.UpdatedBy,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment by ID: %w", err)
	}
	return enrollment, nil
}

// GetByStudentAndBatch retrieves the enrollment of a student in a batch.
// Existence of the row is what admits the student into the batch's room.
func (r *EnrollmentRepository) GetByStudentAndBatch(ctx context.Context, studentID, batchID int64) (*domain.Enrollment, error) {
	query := `
		SELECT id, batch_id, student_id, joined_at, created_at, created_by, updated_at, updated_by
		FROM batch_students
		WHERE student_id = $1 AND batch_id = $2
	`
	enrollment := &domain.Enrollment{}
	err := r.db.QueryRowContext(ctx, query, studentID, batchID).Scan(
		&enrollment.ID,
		&enrollment.BatchID,
		&enrollment.StudentID,
		&enrollment.JoinedAt,
		&enrollment.CreatedAt,
		&enrollment.CreatedBy,
		&enrollment.UpdatedAt,
		&enrollment.UpdatedBy,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return enrollment, nil
}

// ListByBatch retrieves all enrollments of a batch
func (r *EnrollmentRepository) ListByBatch(ctx context.Context, batchID int64) ([]*domain.Enrollment, error) {
	query := `
		SELECT id, batch_id, student_id, joined_at, created_at, created_by, updated_at, updated_by
		FROM batch_students
		WHERE batch_id = $1
		ORDER BY joined_at
	`
	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]*domain.Enrollment, 0)
	for rows.Next() {
		enrollment := &domain.Enrollment{}
		err := rows.Scan(
			&enrollment.ID,
			&enrollment.BatchID,
			&enrollment.StudentID,
			&enrollment.JoinedAt,
			&enrollment.CreatedAt,
			&enrollment.CreatedBy,
			&enrollment.UpdatedAt,
			&enrollment.UpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollments: %w", err)
	}
	return enrollments, nil
}

// Delete removes an enrollment row
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM batch_students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	if affected == 0 {
		return domain.ErrEnrollmentNotFound
	}
	return nil
}
