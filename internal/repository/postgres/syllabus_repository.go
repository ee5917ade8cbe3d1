package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"edubatch/internal/domain"
)

// SyllabusRepository implements domain.SyllabusRepository for PostgreSQL
type SyllabusRepository struct {
	db *sql.DB
}

// NewSyllabusRepository creates a new PostgreSQL syllabus repository
func NewSyllabusRepository(db *sql.DB) *SyllabusRepository {
	return &SyllabusRepository{db: db}
}

// Create inserts a new syllabus into the database
func (r *SyllabusRepository) Create(ctx context.Context, syllabus *domain.Syllabus) error {
	query := `
		INSERT INTO syllabuses (name, topics, created_by, updated_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		syllabus.Name,
		pq.Array(syllabus.Topics),
		syllabus.CreatedBy,
		syllabus.UpdatedBy,
	).Scan(&syllabus.ID, &syllabus.CreatedAt, &syllabus.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "syllabuses_name_key") {
			return domain.ErrSyllabusExists
		}
		return fmt.Errorf("failed to create syllabus: %w", err)
	}
	return nil
}

// GetByID retrieves a syllabus by ID
func (r *SyllabusRepository) GetByID(ctx context.Context, id int64) (*domain.Syllabus, error) {
	query := `
		SELECT id, name, topics, created_at, created_by, updated_at, updated_by
		FROM syllabuses
		WHERE id = $1
	`
	syllabus := &domain.Syllabus{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&syllabus.ID,
		&syllabus.Name,
		pq.Array(&syllabus.Topics),
		&syllabus.CreatedAt,
		&syllabus.CreatedBy,
		&syllabus.UpdatedAt,
		&syllabus.UpdatedBy,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSyllabusNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get syllabus by ID: %w", err)
	}
	return syllabus, nil
}

// GetByName retrieves a syllabus by its unique name
func (r *SyllabusRepository) GetByName(ctx context.Context, name string) (*domain.Syllabus, error) {
	query := `
		SELECT id, name, topics, created_at, created_by, updated_at, updated_by
		FROM syllabuses
		WHERE name = $1
	`
	syllabus := &domain.Syllabus{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&syllabus.ID,
		&syllabus.Name,
		pq.Array(&syllabus.Topics),
		&syllabus.CreatedAt,
		&syllabus.CreatedBy,
		&syllabus.UpdatedAt,
		&syllabus.UpdatedBy,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSyllabusNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get syllabus by name: %w", err)
	}
	return syllabus, nil
}

// List retrieves all syllabuses
func (r *SyllabusRepository) List(ctx context.Context) ([]*domain.Syllabus, error) {
	query := `
		SELECT id, name, topics, created_at, created_by, updated_at, updated_by
		FROM syllabuses
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query syllabuses: %w", err)
	}
	defer rows.Close()

	syllabuses := make([]*domain.Syllabus, 0)
	for rows.Next() {
		syllabus := &domain.Syllabus{}
		err := rows.Scan(
			&syllabus.ID,
			&syllabus.Name,
			pq.Array(&syllabus.Topics),
			&syllabus.CreatedAt,
			&syllabus.CreatedBy,
			&syllabus.UpdatedAt,
			&syllabus.UpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan syllabus: %w", err)
		}
		syllabuses = append(syllabuses, syllabus)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating syllabuses: %w", err)
	}
	return syllabuses, nil
}

// CountByIDs counts how many of the given IDs exist. Callers compare the
// count against len(ids) to detect dangling references.
func (r *SyllabusRepository) CountByIDs(ctx context.Context, ids []int64) (int, error) {
	query := `SELECT COUNT(*) FROM syllabuses WHERE id = ANY($1)`

	var count int
	err := r.db.QueryRowContext(ctx, query, pq.Array(ids)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count syllabuses: %w", err)
	}
	return count, nil
}

// Update rewrites the mutable fields of a syllabus
func (r *SyllabusRepository) Update(ctx context.Context, syllabus *domain.Syllabus) error {
	query := `
		UPDATE syllabuses
		SET name = $1, topics = $2, updated_by = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		syllabus.Name,
		pq.Array(syllabus.Topics),
		syllabus.UpdatedBy,
		syllabus.ID,
	).Scan(&syllabus.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrSyllabusNotFound
	}
	if err != nil {
		if isUniqueViolation(err, "syllabuses_name_key") {
			return domain.ErrSyllabusExists
		}
		return fmt.Errorf("failed to update syllabus: %w", err)
	}
	return nil
}

// Delete removes a syllabus row
func (r *SyllabusRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM syllabuses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete syllabus: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete syllabus: %w", err)
	}
	if affected == 0 {
		return domain.ErrSyllabusNotFound
	}
	return nil
}
