package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"edubatch/internal/domain"
)

// StudentRepository implements domain.StudentRepository for PostgreSQL
type StudentRepository struct {
	db *sql.DB
}

// NewStudentRepository creates a new PostgreSQL student repository
func NewStudentRepository(db *sql.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, user_id, degree, specialization, passout_year, city, state, referral_by, created_at, created_by, updated_at, updated_by, is_active`

func scanStudent(row interface{ Scan(dest ...any) error }) (*domain.Student, error) {
	student := &domain.Student{}
	err := row.Scan(
		&student.ID,
		&student.UserID,
		&student.Degree,
		&student.Specialization,
		&student.PassoutYear,
		&student.City,
		&student.State,
		&student.ReferralBy,
		&student.CreatedAt,
		&student.CreatedBy,
		&student.UpdatedAt,
		&student.UpdatedBy,
		&student.IsActive,
	)
	return student, err
}

// Create inserts a new student profile into the database
func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) error {
	query := `
		INSERT INTO students (user_id, degree, specialization, passout_year, city, state, referral_by, created_by, updated_by, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		student.UserID,
		student.Degree,
		student.Specialization,
		student.PassoutYear,
		student.City,
		student.State,
		student.ReferralBy,
		student.CreatedBy,
		student.UpdatedBy,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}

	student.IsActive = true
	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	student, err := scanStudent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student by ID: %w", err)
	}
	return student, nil
}

// GetByUserID retrieves the student profile attached to a user account
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE user_id = $1`

	student, err := scanStudent(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student by user ID: %w", err)
	}
	return student, nil
}

// List retrieves all active students
func (r *StudentRepository) List(ctx context.Context) ([]*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE is_active = TRUE ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	students := make([]*domain.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}
	return students, nil
}

// Update rewrites the mutable fields of a student
func (r *StudentRepository) Update(ctx context.Context, student *domain.Student) error {
	query := `
		UPDATE students
		SET degree = $1, specialization = $2, passout_year = $3, city = $4, state = $5, updated_by = $6, updated_at = NOW(), is_active = $7
		WHERE id = $8
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		student.Degree,
		student.Specialization,
		student.PassoutYear,
		student.City,
		student.State,
		student.UpdatedBy,
		student.IsActive,
		student.ID,
	).Scan(&student.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrStudentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	return nil
}

// Delete removes a student row
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if affected == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}
