package service

import (
	"context"
	"errors"

	"edubatch/internal/cache"
	"edubatch/internal/domain"
)

// StudentService owns student profiles and batch enrollments.
type StudentService struct {
	studentRepo    domain.StudentRepository
	enrollmentRepo domain.EnrollmentRepository
	batchRepo      domain.BatchRepository
	cache          *cache.Cache
	invalidator    *cache.Invalidator
}

func NewStudentService(studentRepo domain.StudentRepository, enrollmentRepo domain.EnrollmentRepository,
	batchRepo domain.BatchRepository, c *cache.Cache, inv *cache.Invalidator) *StudentService {
	return &StudentService{
		studentRepo:    studentRepo,
		enrollmentRepo: enrollmentRepo,
		batchRepo:      batchRepo,
		cache:          c,
		invalidator:    inv,
	}
}

func (s *StudentService) CreateStudent(ctx context.Context, student *domain.Student) error {
	if student.UserID == 0 {
		return domain.ErrInvalidInput
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return err
	}

	s.invalidator.Student(ctx, student.ID)
	return nil
}

func (s *StudentService) ListStudents(ctx context.Context) ([]*domain.Student, error) {
	return cache.Read(ctx, s.cache, cache.KeyStudentsAll, cache.TTLStudents,
		func(ctx context.Context) ([]*domain.Student, error) {
			return s.studentRepo.List(ctx)
		})
}

func (s *StudentService) GetStudent(ctx context.Context, id int64) (*domain.Student, error) {
	return cache.Read(ctx, s.cache, cache.KeyStudent(id), cache.TTLStudents,
		func(ctx context.Context) (*domain.Student, error) {
			return s.studentRepo.GetByID(ctx, id)
		})
}

func (s *StudentService) UpdateStudent(ctx context.Context, student *domain.Student) error {
	if _, err := s.studentRepo.GetByID(ctx, student.ID); err != nil {
		return err
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return err
	}

	s.invalidator.Student(ctx, student.ID)
	return nil
}

func (s *StudentService) DeleteStudent(ctx context.Context, id int64) error {
	if _, err := s.studentRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidator.Student(ctx, id)
	return nil
}

// Enroll maps a student into a batch. The new mapping is what admits the
// student to the batch's chat room on their next join attempt.
func (s *StudentService) Enroll(ctx context.Context, enrollment *domain.Enrollment) error {
	if _, err := s.batchRepo.GetByID(ctx, enrollment.BatchID); err != nil {
		return err
	}
	if _, err := s.studentRepo.GetByID(ctx, enrollment.StudentID); err != nil {
		return err
	}

	existing, err := s.enrollmentRepo.GetByStudentAndBatch(ctx, enrollment.StudentID, enrollment.BatchID)
	if err != nil && !errors.Is(err, domain.ErrEnrollmentNotFound) {
		return err
	}
	if existing != nil {
		return domain.ErrAlreadyEnrolled
	}

	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return err
	}

	s.invalidator.Enrollment(ctx, enrollment.ID, enrollment.BatchID)
	return nil
}

// Roster lists a batch's enrollments (cached).
func (s *StudentService) Roster(ctx context.Context, batchID int64) ([]*domain.Enrollment, error) {
	return cache.Read(ctx, s.cache, cache.KeyBatchRoster(batchID), cache.TTLRosters,
		func(ctx context.Context) ([]*domain.Enrollment, error) {
			return s.enrollmentRepo.ListByBatch(ctx, batchID)
		})
}

// Unenroll removes a batch-student mapping.
func (s *StudentService) Unenroll(ctx context.Context, enrollmentID int64) error {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		return err
	}

	if err := s.enrollmentRepo.Delete(ctx, enrollmentID); err != nil {
		return err
	}

	s.invalidator.Enrollment(ctx, enrollmentID, enrollment.BatchID)
	return nil
}
