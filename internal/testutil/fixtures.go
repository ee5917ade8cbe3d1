package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"edubatch/internal/domain"
)

// Counter for generating unique IDs
var idCounter atomic.Int64

func nextID() int64 {
	return idCounter.Add(1)
}

// NewTestUser creates a test user with sensible defaults
func NewTestUser(role domain.Role) *domain.User {
	id := nextID()
	return &domain.User{
		ID:           id,
		Name:         fmt.Sprintf("testuser%d", id),
		Email:        fmt.Sprintf("testuser%d@example.com", id),
		PhoneNumber:  fmt.Sprintf("555%07d", id),
		Role:         role,
		PasswordHash: "$2a$12$test.hash.for.testing.purposes.only",
		CreatedAt:    time.Now(),
		IsActive:     true,
	}
}

// NewTestBatch creates a test batch mentored by the given user
func NewTestBatch(mentorID int64) *domain.Batch {
	id := nextID()
	now := time.Now()
	return &domain.Batch{
		ID:          id,
		Name:        fmt.Sprintf("Batch %d", id),
		SyllabusIDs: []int64{1},
		StartDate:   now,
		EndDate:     now.AddDate(0, 3, 0),
		MentorID:    mentorID,
		CreatedAt:   now,
		IsActive:    true,
	}
}

// NewTestStudent creates a test student profile for the given user account
func NewTestStudent(userID int64) *domain.Student {
	return &domain.Student{
		ID:        nextID(),
		UserID:    userID,
		Degree:    "B.Tech",
		City:      "Pune",
		State:     "MH",
		CreatedAt: time.Now(),
		IsActive:  true,
	}
}

// NewTestEnrollment enrolls a student into a batch
func NewTestEnrollment(batchID, studentID int64) *domain.Enrollment {
	return &domain.Enrollment{
		ID:        nextID(),
		BatchID:   batchID,
		StudentID: studentID,
		JoinedAt:  time.Now(),
		CreatedAt: time.Now(),
	}
}

// NewTestSyllabus creates a test syllabus
func NewTestSyllabus(name string) *domain.Syllabus {
	return &domain.Syllabus{
		ID:        nextID(),
		Name:      name,
		Topics:    []string{"Intro", "Basics"},
		CreatedAt: time.Now(),
	}
}
