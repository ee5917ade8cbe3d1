package service

import (
	"context"
	"errors"

	"edubatch/internal/cache"
	"edubatch/internal/domain"
)

// SyllabusService owns syllabus CRUD with cached reads.
type SyllabusService struct {
	syllabusRepo domain.SyllabusRepository
	cache        *cache.Cache
	invalidator  *cache.Invalidator
}

func NewSyllabusService(syllabusRepo domain.SyllabusRepository, c *cache.Cache, inv *cache.Invalidator) *SyllabusService {
	return &SyllabusService{
		syllabusRepo: syllabusRepo,
		cache:        c,
		invalidator:  inv,
	}
}

func (s *SyllabusService) CreateSyllabus(ctx context.Context, syllabus *domain.Syllabus) error {
	if syllabus.Name == "" || len(syllabus.Topics) == 0 {
		return domain.ErrInvalidInput
	}

	existing, err := s.syllabusRepo.GetByName(ctx, syllabus.Name)
	if err != nil && !errors.Is(err, domain.ErrSyllabusNotFound) {
		return err
	}
	if existing != nil {
		return domain.ErrSyllabusExists
	}

	if err := s.syllabusRepo.Create(ctx, syllabus); err != nil {
		return err
	}

	s.invalidator.Syllabus(ctx, syllabus.ID)
	return nil
}

func (s *SyllabusService) ListSyllabus(ctx context.Context) ([]*domain.Syllabus, error) {
	return cache.Read(ctx, s.cache, cache.KeySyllabusAll, cache.TTLSyllabus,
		func(ctx context.Context) ([]*domain.Syllabus, error) {
			return s.syllabusRepo.List(ctx)
		})
}

func (s *SyllabusService) GetSyllabus(ctx context.Context, id int64) (*domain.Syllabus, error) {
	return cache.Read(ctx, s.cache, cache.KeySyllabus(id), cache.TTLSyllabus,
		func(ctx context.Context) (*domain.Syllabus, error) {
			return s.syllabusRepo.GetByID(ctx, id)
		})
}

func (s *SyllabusService) UpdateSyllabus(ctx context.Context, syllabus *domain.Syllabus) error {
	if _, err := s.syllabusRepo.GetByID(ctx, syllabus.ID); err != nil {
		return err
	}

	if err := s.syllabusRepo.Update(ctx, syllabus); err != nil {
		return err
	}

	s.invalidator.Syllabus(ctx, syllabus.ID)
	return nil
}

func (s *SyllabusService) DeleteSyllabus(ctx context.Context, id int64) error {
	if _, err := s.syllabusRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.syllabusRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidator.Syllabus(ctx, id)
	return nil
}
