package banner

import (
	"context"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/surveyops/respops/core"
)

type (
	Repository interface {
		GetActiveBanner(ctx context.Context) (Banner, error)
		SetActiveBanner(ctx context.Context, b Banner) (Banner, error)
		ClearActiveBanner(ctx context.Context) error
		CreateTemplate(ctx context.Context, t Template) (Template, error)
		QueryAllTemplates(ctx context.Context) ([]Template, error)
		GetTemplate(ctx context.Context, id uuid.UUID) (Template, error)
		DeleteTemplate(ctx context.Context, id uuid.UUID) error
	}

	Service struct {
		repo  Repository
		clock core.Clock
	}
)

func NewService(repo Repository, clock core.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

// Active returns the currently published banner, if any.
func (svc *Service) Active(ctx context.Context) (Banner, error) {
	return svc.repo.GetActiveBanner(ctx)
}

// Publish validates and publishes a new site-wide banner, replacing any
// existing one.
func (svc *Service) Publish(ctx context.Context, nb NewBanner, setBy string) (Banner, error) {
	if err := nb.Validate(); err != nil {
		return Banner{}, err
	}
	b := Banner{
		ID:        uuid.New(),
		Content:   nb.Content,
		SetBy:     setBy,
		CreatedAt: svc.clock.Now(),
	}
	return svc.repo.SetActiveBanner(ctx, b)
}

// Remove takes the active banner down; removing an absent banner is a no-op.
func (svc *Service) Remove(ctx context.Context) error {
	if err := svc.repo.ClearActiveBanner(ctx); err != nil && err != ErrNoActiveBanner {
		return pkgerrors.Wrap(err, "clearing active banner")
	}
	return nil
}

func (svc *Service) CreateTemplate(ctx context.Context, nt NewTemplate) (Template, error) {
	if err := nt.Validate(); err != nil {
		return Template{}, err
	}
	return svc.repo.CreateTemplate(ctx, Template{ID: uuid.New(), Title: nt.Title, Content: nt.Content})
}

func (svc *Service) QueryTemplates(ctx context.Context) ([]Template, error) {
	return svc.repo.QueryAllTemplates(ctx)
}

func (svc *Service) GetTemplate(ctx context.Context, id uuid.UUID) (Template, error) {
	return svc.repo.GetTemplate(ctx, id)
}

func (svc *Service) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return svc.repo.DeleteTemplate(ctx, id)
}
