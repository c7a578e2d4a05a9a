package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/surveyops/respops/core/banner"
)

type bannerRepository struct {
	db *bannerTable
}

var _ banner.Repository = (*bannerRepository)(nil) // interface compliance check

func NewBannerRepository(db *DB) banner.Repository {
	return &bannerRepository{db: db.banner}
}

func (repo *bannerRepository) GetActiveBanner(ctx context.Context) (banner.Banner, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.active == nil {
		return banner.Banner{}, banner.ErrNoActiveBanner
	}
	return *repo.db.active, nil
}

func (repo *bannerRepository) SetActiveBanner(ctx context.Context, b banner.Banner) (banner.Banner, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.active = &b
	return b, nil
}

func (repo *bannerRepository) ClearActiveBanner(ctx context.Context) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.db.active == nil {
		return banner.ErrNoActiveBanner
	}
	repo.db.active = nil
	return nil
}

func (repo *bannerRepository) CreateTemplate(ctx context.Context, t banner.Template) (banner.Template, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.templates[t.ID.String()] = &t
	return t, nil
}

func (repo *bannerRepository) QueryAllTemplates(ctx context.Context) ([]banner.Template, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	templates := make([]banner.Template, 0, len(repo.db.templates))
	for _, t := range repo.db.templates {
		templates = append(templates, *t)
	}
	return templates, nil
}

func (repo *bannerRepository) GetTemplate(ctx context.Context, id uuid.UUID) (banner.Template, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.templates[id.String()]; ok {
		return *t, nil
	}
	return banner.Template{}, banner.ErrTemplateNotFound
}

func (repo *bannerRepository) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.templates, id.String())
	return nil
}
