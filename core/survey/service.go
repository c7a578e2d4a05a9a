package survey

import (
	"context"
	"time"

	"github.com/surveyops/respops/core"
)

type (
	// Repository fronts the survey service.
	Repository interface {
		GetSurveys(ctx context.Context) ([]Survey, error)
		GetSurveyByID(ctx context.Context, id string) (Survey, error)
	}

	Service struct {
		repo  Repository
		cache *Cache
	}
)

func NewService(repo Repository, clock core.Clock, ttl time.Duration, log core.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: NewCache(repo, clock, ttl, log),
	}
}

func (svc *Service) QueryAll(ctx context.Context) []Survey {
	return svc.cache.All(ctx)
}

func (svc *Service) GetByShortName(ctx context.Context, shortName string) (Survey, error) {
	if s, ok := svc.cache.Get(ctx, shortName); ok {
		return s, nil
	}
	return Survey{}, ErrNotFound
}

func (svc *Service) GetByRef(ctx context.Context, ref string) (Survey, error) {
	if s, ok := svc.cache.GetByRef(ctx, ref); ok {
		return s, nil
	}
	return Survey{}, ErrNotFound
}

// GetByID bypasses the cache: IDs are used on detail pages where staleness
// would be confusing right after an edit.
func (svc *Service) GetByID(ctx context.Context, id string) (Survey, error) {
	return svc.repo.GetSurveyByID(ctx, id)
}

// RefreshCache is exposed for the composition root's scheduled refresh.
func (svc *Service) RefreshCache(ctx context.Context) error {
	return svc.cache.Refresh(ctx)
}
