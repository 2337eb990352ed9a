package specialty

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

const listCacheKey = "specialties:all"

// Service manages the specialty catalog. The catalog changes rarely and is
// read on every doctor search, so the list is cached for a few minutes.
type Service struct {
	repo  repository.SpecialtyRepository
	cache *gocache.Cache
}

func NewService(repo repository.SpecialtyRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateSpecialtyRequest) (*model.Specialty, error) {
	specialty := &model.Specialty{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, specialty); err != nil {
		return nil, fmt.Errorf("failed to create specialty: %w", err)
	}
	s.cache.Delete(listCacheKey)
	return specialty, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Specialty, error) {
	specialty, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("specialty", err)
	}
	return specialty, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Specialty, error) {
	if cached, ok := s.cache.Get(listCacheKey); ok {
		return cached.([]*model.Specialty), nil
	}
	specialties, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(listCacheKey, specialties, gocache.DefaultExpiration)
	return specialties, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return apperrors.NotFound("specialty", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete specialty: %w", err)
	}
	s.cache.Delete(listCacheKey)
	return nil
}
