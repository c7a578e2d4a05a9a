package rmsvc

import (
	"context"

	"github.com/pkg/errors"

	"github.com/surveyops/respops/core"
	"github.com/surveyops/respops/core/collex"
)

type sampleSummaryDTO struct {
	ID                            string `json:"id"`
	State                         string `json:"state"`
	TotalSampleUnits              int    `json:"totalSampleUnits"`
	ExpectedCollectionInstruments int    `json:"expectedCollectionInstruments"`
}

// SampleService talks to the sample service.
type SampleService struct {
	client *client
}

var _ collex.SampleGetter = (*SampleService)(nil)

func NewSampleService(conf *core.Config) *SampleService {
	return &SampleService{client: newClient(conf.RM.SampleURL, conf)}
}

func (svc *SampleService) GetSampleSummary(ctx context.Context, sampleSummaryID string) (collex.SampleSummary, error) {
	var dto sampleSummaryDTO
	if err := svc.client.get(ctx, "/samples/samplesummary/"+sampleSummaryID, nil, &dto); err != nil {
		if isNotFound(err) {
			return collex.SampleSummary{}, collex.ErrSampleNotFound
		}
		return collex.SampleSummary{}, errors.Wrap(err, "getting sample summary")
	}
	return collex.SampleSummary(dto), nil
}
