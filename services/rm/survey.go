package rmsvc

import (
	"context"

	"github.com/pkg/errors"

	"github.com/surveyops/respops/core"
	"github.com/surveyops/respops/core/survey"
)

// SurveyService talks to the survey service.
type SurveyService struct {
	client *client
}

var _ survey.Repository = (*SurveyService)(nil)

func NewSurveyService(conf *core.Config) *SurveyService {
	return &SurveyService{client: newClient(conf.RM.SurveyURL, conf)}
}

func (svc *SurveyService) GetSurveys(ctx context.Context) ([]survey.Survey, error) {
	var surveys []survey.Survey
	if err := svc.client.get(ctx, "/surveys", nil, &surveys); err != nil {
		return nil, errors.Wrap(err, "listing surveys")
	}
	return surveys, nil
}

func (svc *SurveyService) GetSurveyByID(ctx context.Context, id string) (survey.Survey, error) {
	var s survey.Survey
	if err := svc.client.get(ctx, "/surveys/"+id, nil, &s); err != nil {
		if isNotFound(err) {
			return survey.Survey{}, survey.ErrNotFound
		}
		return survey.Survey{}, errors.Wrap(err, "getting survey")
	}
	return s, nil
}
