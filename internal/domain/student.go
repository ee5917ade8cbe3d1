package domain

import (
	"context"
	"time"
)

// Student is the student profile attached to a user account.
type Student struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Degree         string    `json:"degree"`
	Specialization string    `json:"specialization"`
	PassoutYear    int       `json:"passout_year"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	ReferralBy     int64     `json:"referral_by"`
	CreatedAt      time.Time `json:"created_at"`
	CreatedBy      int64     `json:"created_by"`
	UpdatedAt      time.Time `json:"updated_at"`
	UpdatedBy      int64     `json:"updated_by"`
	IsActive       bool      `json:"is_active"`
}

// Enrollment maps a student into a batch. Existence of a row is what admits
// the student into the batch's chat room.
type Enrollment struct {
	ID        int64     `json:"id"`
	BatchID   int64     `json:"batch_id"`
	StudentID int64     `json:"student_id"`
	JoinedAt  time.Time `json:"joined_at"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy int64     `json:"created_by"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy int64     `json:"updated_by"`
}

// StudentRepository defines the interface for student data access
type StudentRepository interface {
	Create(ctx context.Context, student *Student) error
	GetByID(ctx context.Context, id int64) (*Student, error)
	GetByUserID(ctx context.Context, userID int64) (*Student, error)
	List(ctx context.Context) ([]*Student, error)
	Update(ctx context.Context, student *Student) error
	Delete(ctx context.Context, id int64) error
}

// EnrollmentRepository defines the interface for batch-student mappings
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *Enrollment) error
	GetByID(ctx context.Context, id int64) (*Enrollment, error)
	GetByStudentAndBatch(ctx context.Context, studentID, batchID int64) (*Enrollment, error)
	ListByBatch(ctx context.Context, batchID int64) ([]*Enrollment, error)
	Delete(ctx context.Context, id int64) error
}
