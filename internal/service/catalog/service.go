package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	gocache "github.com/patrickmn/go-cache"

	"github.com/parishops/parish-api/internal/model"
	"github.com/parishops/parish-api/internal/repository"
	apperrors "github.com/parishops/parish-api/pkg/errors"
)

const listCacheKey = "services:list:"

// Service manages the catalog of bookable parish services. List results
// are cached briefly since the catalog changes rarely; scheduling reads
// always go to the store.
type Service struct {
	repo  repository.ServiceRepository
	cache *gocache.Cache
}

func NewService(repo repository.ServiceRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(30*time.Second, time.Minute),
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateServiceRequest) (*model.Service, error) {
	if req.RequiresMultipleDays && req.ConsecutiveDays < 2 {
		return nil, apperrors.BadRequest("multi-day services need a consecutive day count of at least 2", nil)
	}

	if existing, err := s.repo.GetByName(ctx, req.Name); err == nil && existing != nil {
		return nil, apperrors.Conflict(fmt.Sprintf("a service named %q already exists", req.Name))
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	svc := &model.Service{
		Name:                 req.Name,
		Description:          req.Description,
		Price:                req.Price,
		DurationMinutes:      req.DurationMinutes,
		AllowedDays:          pq.Int64Array(req.AllowedDays),
		AllowConcurrent:      req.AllowConcurrent,
		RequiresMultipleDays: req.RequiresMultipleDays,
		ConsecutiveDays:      req.ConsecutiveDays,
		Status:               model.ServiceStatusActive,
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.cache.Flush()
	return svc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	svc, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("service", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return svc, nil
}

func (s *Service) List(ctx context.Context, status string) ([]*model.Service, error) {
	key := listCacheKey + status
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.Service), nil
	}

	services, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.cache.SetDefault(key, services)
	return services, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	svc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.AllowedDays != nil {
		svc.AllowedDays = pq.Int64Array(req.AllowedDays)
	}
	if req.AllowConcurrent != nil {
		svc.AllowConcurrent = *req.AllowConcurrent
	}
	if req.Status != nil {
		svc.Status = *req.Status
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("service", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.cache.Flush()
	return svc, nil
}

// Delete retires a service. Rows are never removed so historical
// appointments keep a valid reference; the service is marked inactive.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("service", err)
		}
		return apperrors.Internal(err)
	}
	s.cache.Flush()
	return nil
}
