package party

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/surveyops/respops/core"
)

var (
	errBadRespondentStatus = errors.New("respondent status must be ACTIVE or SUSPENDED")
	errBadEnrolmentStatus  = errors.New("enrolment status must be ENABLED or DISABLED")
	errEmptySearch         = errors.New("a search term is required")
)

type (
	// Repository fronts the party service.
	Repository interface {
		SearchBusinesses(ctx context.Context, query string) ([]Business, error)
		GetBusiness(ctx context.Context, id string) (Business, error)
		GetRespondent(ctx context.Context, id string) (Respondent, error)
		GetRespondentByEmail(ctx context.Context, email string) (Respondent, error)
		UpdateRespondentStatus(ctx context.Context, id string, status RespondentStatus) error
		UpdateEnrolmentStatus(ctx context.Context, respondentID, businessID, surveyID string, status EnrolmentStatus) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SearchBusinesses matches businesses by name or sample unit reference.
func (svc *Service) SearchBusinesses(ctx context.Context, query string) ([]Business, error) {
	query = core.CleanString(query)
	if query == "" {
		return nil, core.NewValidationError(errEmptySearch, core.FieldError{Field: "query", Error: errEmptySearch.Error()})
	}
	return svc.repo.SearchBusinesses(ctx, query)
}

func (svc *Service) GetBusiness(ctx context.Context, id string) (Business, error) {
	return svc.repo.GetBusiness(ctx, id)
}

func (svc *Service) GetRespondent(ctx context.Context, id string) (Respondent, error) {
	return svc.repo.GetRespondent(ctx, id)
}

func (svc *Service) GetRespondentByEmail(ctx context.Context, email string) (Respondent, error) {
	return svc.repo.GetRespondentByEmail(ctx, core.CleanString(email, true /* lower */))
}

// ChangeRespondentStatus suspends or reactivates a respondent account.
func (svc *Service) ChangeRespondentStatus(ctx context.Context, id string, status RespondentStatus) error {
	if status != RespondentActive && status != RespondentSuspended {
		return core.NewValidationError(errBadRespondentStatus, core.FieldError{Field: "status", Error: errBadRespondentStatus.Error()})
	}
	return pkgerrors.Wrap(svc.repo.UpdateRespondentStatus(ctx, id, status), "updating respondent status")
}

// ChangeEnrolmentStatus enables or disables one survey enrolment.
func (svc *Service) ChangeEnrolmentStatus(ctx context.Context, respondentID, businessID, surveyID string, status EnrolmentStatus) error {
	if status != EnrolmentEnabled && status != EnrolmentDisabled {
		return core.NewValidationError(errBadEnrolmentStatus, core.FieldError{Field: "status", Error: errBadEnrolmentStatus.Error()})
	}
	return pkgerrors.Wrap(
		svc.repo.UpdateEnrolmentStatus(ctx, respondentID, businessID, surveyID, status),
		"updating enrolment status",
	)
}
