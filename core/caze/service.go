package caze

import (
	"context"
	"errors"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/surveyops/respops/core"
)

var (
	// errors
	ErrNotFound           = errors.New("case not found")
	errTransitionNotValid = errors.New("this status change is not available for the case")
)

type (
	// Repository fronts the case service: it owns the legal transition
	// set per case; this service only filters and applies it.
	Repository interface {
		GetCaseGroup(ctx context.Context, id uuid.UUID) (CaseGroup, error)
		GetCaseGroupsByParty(ctx context.Context, partyID string) ([]CaseGroup, error)
		GetAvailableTransitions(ctx context.Context, caseGroupID uuid.UUID) (map[string]Status, error)
		ApplyTransition(ctx context.Context, caseGroupID uuid.UUID, event string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetCaseGroup(ctx context.Context, id uuid.UUID) (CaseGroup, error) {
	return svc.repo.GetCaseGroup(ctx, id)
}

func (svc *Service) QueryByParty(ctx context.Context, partyID string) ([]CaseGroup, error) {
	return svc.repo.GetCaseGroupsByParty(ctx, partyID)
}

// AvailableStatusChanges returns the exposed transitions of a case,
// grouped and ordered for display.
func (svc *Service) AvailableStatusChanges(ctx context.Context, caseGroupID uuid.UUID) ([]CategoryGroup, error) {
	available, err := svc.repo.GetAvailableTransitions(ctx, caseGroupID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "getting available transitions")
	}
	return ExposedTransitions(available), nil
}

// ChangeStatus fires a transition event on a case after checking the
// event is actually exposed for it.
func (svc *Service) ChangeStatus(ctx context.Context, caseGroupID uuid.UUID, event string) error {
	available, err := svc.repo.GetAvailableTransitions(ctx, caseGroupID)
	if err != nil {
		return pkgerrors.Wrap(err, "getting available transitions")
	}
	if !exposedEvent(available, event) {
		return core.NewValidationError(errTransitionNotValid, core.FieldError{
			Field: "event",
			Error: errTransitionNotValid.Error(),
		})
	}
	return pkgerrors.Wrap(svc.repo.ApplyTransition(ctx, caseGroupID, event), "applying transition")
}
