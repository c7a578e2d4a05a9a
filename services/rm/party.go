package rmsvc

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pkg/errors"

	"github.com/surveyops/respops/core"
	"github.com/surveyops/respops/core/party"
)

// PartyService talks to the party service.
type PartyService struct {
	client *client
}

var _ party.Repository = (*PartyService)(nil)

func NewPartyService(conf *core.Config) *PartyService {
	return &PartyService{client: newClient(conf.RM.PartyURL, conf)}
}

func (svc *PartyService) SearchBusinesses(ctx context.Context, query string) ([]party.Business, error) {
	var businesses []party.Business
	q := url.Values{"query": {query}}
	if err := svc.client.get(ctx, "/party-api/v1/businesses/search", q, &businesses); err != nil {
		return nil, errors.Wrap(err, "searching businesses")
	}
	return businesses, nil
}

func (svc *PartyService) GetBusiness(ctx context.Context, id string) (party.Business, error) {
	var b party.Business
	if err := svc.client.get(ctx, "/party-api/v1/businesses/id/"+id, nil, &b); err != nil {
		if isNotFound(err) {
			return party.Business{}, party.ErrBusinessNotFound
		}
		return party.Business{}, errors.Wrap(err, "getting business")
	}
	return b, nil
}

func (svc *PartyService) GetRespondent(ctx context.Context, id string) (party.Respondent, error) {
	var r party.Respondent
	if err := svc.client.get(ctx, "/party-api/v1/respondents/id/"+id, nil, &r); err != nil {
		if isNotFound(err) {
			return party.Respondent{}, party.ErrRespondentNotFound
		}
		return party.Respondent{}, errors.Wrap(err, "getting respondent")
	}
	return r, nil
}

func (svc *PartyService) GetRespondentByEmail(ctx context.Context, email string) (party.Respondent, error) {
	var r party.Respondent
	in := struct {
		Email string `json:"email"`
	}{Email: email}
	// the email goes in the request body so it never appears in access logs
	if err := svc.client.post(ctx, "/party-api/v1/respondents/email", in, &r); err != nil {
		if isNotFound(err) {
			return party.Respondent{}, party.ErrRespondentNotFound
		}
		return party.Respondent{}, errors.Wrap(err, "getting respondent by email")
	}
	return r, nil
}

func (svc *PartyService) UpdateRespondentStatus(ctx context.Context, id string, status party.RespondentStatus) error {
	in := struct {
		StatusChange string `json:"status_change"`
	}{StatusChange: string(status)}
	path := fmt.Sprintf("/party-api/v1/respondents/edit-account-status/%s", id)
	if err := svc.client.put(ctx, path, in, nil); err != nil {
		if isNotFound(err) {
			return party.ErrRespondentNotFound
		}
		return errors.Wrap(err, "updating respondent status")
	}
	return nil
}

func (svc *PartyService) UpdateEnrolmentStatus(ctx context.Context, respondentID, businessID, surveyID string, status party.EnrolmentStatus) error {
	in := struct {
		RespondentID string `json:"respondent_id"`
		BusinessID   string `json:"business_id"`
		SurveyID     string `json:"survey_id"`
		Status       string `json:"change_flag"`
	}{
		RespondentID: respondentID,
		BusinessID:   businessID,
		SurveyID:     surveyID,
		Status:       string(status),
	}
	if err := svc.client.put(ctx, "/party-api/v1/respondents/change_enrolment_status", in, nil); err != nil {
		if isNotFound(err) {
			return party.ErrRespondentNotFound
		}
		return errors.Wrap(err, "updating enrolment status")
	}
	return nil
}
