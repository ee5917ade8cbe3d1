package domain

import (
	"context"
	"time"
)

// Batch represents one cohort of students working through a syllabus.
// A batch is also the unit of chat room membership.
type Batch struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	SyllabusIDs []int64   `json:"syllabus_ids"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	MentorID    int64     `json:"mentor"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   int64     `json:"created_by"`
	UpdatedAt   time.Time `json:"updated_at"`
	UpdatedBy   int64     `json:"updated_by"`
	IsActive    bool      `json:"is_active"`
}

// ClassSchedule is one recurring weekly slot of a batch.
type ClassSchedule struct {
	ID        int64     `json:"id"`
	BatchID   int64     `json:"batch_id"`
	Day       int       `json:"day"` // 1 = Monday .. 7 = Sunday
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy int64     `json:"created_by"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy int64     `json:"updated_by"`
	IsActive  bool      `json:"is_active"`
}

// BatchRepository defines the interface for batch data access
type BatchRepository interface {
	Create(ctx context.Context, batch *Batch) error
	GetByID(ctx context.Context, id int64) (*Batch, error)
	List(ctx context.Context) ([]*Batch, error)
	Update(ctx context.Context, batch *Batch) error
	Delete(ctx context.Context, id int64) error
}

// ScheduleRepository defines the interface for class schedule data access
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *ClassSchedule) error
	GetByID(ctx context.Context, id, batchID int64) (*ClassSchedule, error)
	GetByBatchAndSlot(ctx context.Context, batchID int64, day int, startTime string) (*ClassSchedule, error)
	ListByBatch(ctx context.Context, batchID int64) ([]*ClassSchedule, error)
	Update(ctx context.Context, schedule *ClassSchedule) error
	Delete(ctx context.Context, id, batchID int64) error
}
