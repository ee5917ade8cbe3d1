package service

import (
	"context"
	"errors"
	"fmt"

	"edubatch/internal/cache"
	"edubatch/internal/domain"
)

// BatchService owns batch and class-schedule CRUD. List/detail reads go
// through the cache-aside layer; every write invalidates through the single
// Invalidator so no handler can miss a key.
type BatchService struct {
	batchRepo    domain.BatchRepository
	scheduleRepo domain.ScheduleRepository
	syllabusRepo domain.SyllabusRepository
	cache        *cache.Cache
	invalidator  *cache.Invalidator
}

func NewBatchService(batchRepo domain.BatchRepository, scheduleRepo domain.ScheduleRepository,
	syllabusRepo domain.SyllabusRepository, c *cache.Cache, inv *cache.Invalidator) *BatchService {
	return &BatchService{
		batchRepo:    batchRepo,
		scheduleRepo: scheduleRepo,
		syllabusRepo: syllabusRepo,
		cache:        c,
		invalidator:  inv,
	}
}

func (s *BatchService) validateSyllabusIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := s.syllabusRepo.CountByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("syllabus lookup: %w", err)
	}
	if count != len(ids) {
		return domain.ErrSyllabusMissing
	}
	return nil
}

func (s *BatchService) CreateBatch(ctx context.Context, batch *domain.Batch) error {
	if batch.Name == "" {
		return domain.ErrInvalidInput
	}
	if err := s.validateSyllabusIDs(ctx, batch.SyllabusIDs); err != nil {
		return err
	}

	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return err
	}

	s.invalidator.Batch(ctx, batch.ID)
	return nil
}

func (s *BatchService) ListBatches(ctx context.Context) ([]*domain.Batch, error) {
	return cache.Read(ctx, s.cache, cache.KeyBatchesAll, cache.TTLBatches,
		func(ctx context.Context) ([]*domain.Batch, error) {
			return s.batchRepo.List(ctx)
		})
}

func (s *BatchService) GetBatch(ctx context.Context, id int64) (*domain.Batch, error) {
	return cache.Read(ctx, s.cache, cache.KeyBatch(id), cache.TTLBatches,
		func(ctx context.Context) (*domain.Batch, error) {
			return s.batchRepo.GetByID(ctx, id)
		})
}

func (s *BatchService) UpdateBatch(ctx context.Context, batch *domain.Batch) error {
	if _, err := s.batchRepo.GetByID(ctx, batch.ID); err != nil {
		return err
	}
	if err := s.validateSyllabusIDs(ctx, batch.SyllabusIDs); err != nil {
		return err
	}

	if err := s.batchRepo.Update(ctx, batch); err != nil {
		return err
	}

	s.invalidator.Batch(ctx, batch.ID)
	return nil
}

func (s *BatchService) DeleteBatch(ctx context.Context, id int64) error {
	if _, err := s.batchRepo.GetByID(ctx, id); err != nil {
		return err
	}

	// Removes linked schedules and enrollments in the same transaction.
	if err := s.batchRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidator.BatchDeleted(ctx, id)
	return nil
}

func (s *BatchService) CreateSchedule(ctx context.Context, schedule *domain.ClassSchedule) error {
	if schedule.Day < 1 || schedule.Day > 7 {
		return domain.ErrInvalidInput
	}
	if _, err := s.batchRepo.GetByID(ctx, schedule.BatchID); err != nil {
		return err
	}

	existing, err := s.scheduleRepo.GetByBatchAndSlot(ctx, schedule.BatchID, schedule.Day, schedule.StartTime)
	if err != nil && !errors.Is(err, domain.ErrScheduleNotFound) {
		return err
	}
	if existing != nil {
		return domain.ErrScheduleExists
	}

	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return err
	}

	s.invalidator.Schedule(ctx, schedule.BatchID)
	return nil
}

func (s *BatchService) ListSchedules(ctx context.Context, batchID int64) ([]*domain.ClassSchedule, error) {
	return cache.Read(ctx, s.cache, cache.KeyBatchSchedule(batchID), cache.TTLSchedules,
		func(ctx context.Context) ([]*domain.ClassSchedule, error) {
			return s.scheduleRepo.ListByBatch(ctx, batchID)
		})
}

func (s *BatchService) UpdateSchedule(ctx context.Context, schedule *domain.ClassSchedule) error {
	if _, err := s.scheduleRepo.GetByID(ctx, schedule.ID, schedule.BatchID); err != nil {
		return err
	}

	if err := s.scheduleRepo.Update(ctx, schedule); err != nil {
		return err
	}

	s.invalidator.Schedule(ctx, schedule.BatchID)
	return nil
}

func (s *BatchService) DeleteSchedule(ctx context.Context, id, batchID int64) error {
	if _, err := s.scheduleRepo.GetByID(ctx, id, batchID); err != nil {
		return err
	}

	if err := s.scheduleRepo.Delete(ctx, id, batchID); err != nil {
		return err
	}

	s.invalidator.Schedule(ctx, batchID)
	return nil
}
