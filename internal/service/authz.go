package service

import (
	"context"
	"errors"
	"fmt"

	"edubatch/internal/domain"
)

// AuthzService is the admission gate for chat rooms. It decides, for a
// verified identity and a batch, whether the connection may join the batch's
// room. The decision is made before the connection is registered anywhere.
//
// Rules:
//   - Admin and SuperAdmin are always admitted.
//   - A Mentor is admitted only to batches they are assigned to.
//   - A Student is admitted only with an active enrollment in the batch.
//   - Everything else is rejected.
type AuthzService struct {
	batchRepo      domain.BatchRepository
	studentRepo    domain.StudentRepository
	enrollmentRepo domain.EnrollmentRepository
}

func NewAuthzService(batchRepo domain.BatchRepository, studentRepo domain.StudentRepository, enrollmentRepo domain.EnrollmentRepository) *AuthzService {
	return &AuthzService{
		batchRepo:      batchRepo,
		studentRepo:    studentRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// AuthorizeRoom returns nil when claims may join the batch's chat room.
// domain.ErrNotAuthorized means insufficient permission; any other error is
// a lookup fault and must be treated as an internal error, not a rejection.
func (s *AuthzService) AuthorizeRoom(ctx context.Context, claims *Claims, batchID int64) error {
	if claims.Role.IsAdmin() {
		return nil
	}

	switch claims.Role {
	case domain.RoleMentor:
		batch, err := s.batchRepo.GetByID(ctx, batchID)
		if errors.Is(err, domain.ErrBatchNotFound) {
			return domain.ErrNotAuthorized
		}
		if err != nil {
			return fmt.Errorf("mentor assignment lookup: %w", err)
		}
		if batch.MentorID != claims.UserID {
			return domain.ErrNotAuthorized
		}
		return nil

	case domain.RoleStudent:
		student, err := s.studentRepo.GetByUserID(ctx, claims.UserID)
		if errors.Is(err, domain.ErrStudentNotFound) {
			return domain.ErrNotAuthorized
		}
		if err != nil {
			return fmt.Errorf("student lookup: %w", err)
		}
		if !student.IsActive {
			return domain.ErrNotAuthorized
		}

		_, err = s.enrollmentRepo.GetByStudentAndBatch(ctx, student.ID, batchID)
		if errors.Is(err, domain.ErrEnrollmentNotFound) {
			return domain.ErrNotAuthorized
		}
		if err != nil {
			return fmt.Errorf("enrollment lookup: %w", err)
		}
		return nil

	default:
		return domain.ErrNotAuthorized
	}
}
