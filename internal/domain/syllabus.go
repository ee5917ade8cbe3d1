package domain

import (
	"context"
	"time"
)

// Syllabus is a named list of topics a batch works through.
type Syllabus struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Topics    []string  `json:"topics"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy int64     `json:"created_by"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy int64     `json:"updated_by"`
}

// SyllabusRepository defines the interface for syllabus data access
type SyllabusRepository interface {
	Create(ctx context.Context, syllabus *Syllabus) error
	GetByID(ctx context.Context, id int64) (*Syllabus, error)
	GetByName(ctx context.Context, name string) (*Syllabus, error)
	List(ctx context.Context) ([]*Syllabus, error)
	CountByIDs(ctx context.Context, ids []int64) (int, error)
	Update(ctx context.Context, syllabus *Syllabus) error
	Delete(ctx context.Context, id int64) error
}
