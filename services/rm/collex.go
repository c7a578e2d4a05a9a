package rmsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/surveyops/respops/core"
	"github.com/surveyops/respops/core/collex"
)

// eventTimeFmt is the timestamp layout the collection-exercise service
// speaks: ISO-8601 with milliseconds and a numeric zone offset.
const eventTimeFmt = "2006-01-02T15:04:05.000Z0700"

type (
	exerciseDTO struct {
		ID              uuid.UUID `json:"id"`
		SurveyID        string    `json:"surveyId"`
		ExerciseRef     string    `json:"exerciseRef"`
		UserDescription string    `json:"userDescription"`
		State           string    `json:"state"`
		ScheduledStart  *string   `json:"scheduledStartDateTime"`
	}

	eventDTO struct {
		Tag       string `json:"tag"`
		Timestamp string `json:"timestamp"`
	}
)

// CollexService talks to the collection-exercise service.
type CollexService struct {
	client *client
}

var (
	_ collex.Repository  = (*CollexService)(nil)
	_ collex.EventWriter = (*CollexService)(nil)
)

func NewCollexService(conf *core.Config) *CollexService {
	return &CollexService{client: newClient(conf.RM.CollectionExerciseURL, conf)}
}

func (svc *CollexService) GetExercise(ctx context.Context, id uuid.UUID) (collex.CollectionExercise, error) {
	var dto exerciseDTO
	if err := svc.client.get(ctx, "/collectionexercises/"+id.String(), nil, &dto); err != nil {
		if isNotFound(err) {
			return collex.CollectionExercise{}, collex.ErrNotFound
		}
		return collex.CollectionExercise{}, errors.Wrap(err, "getting collection exercise")
	}
	return dto.toExercise()
}

func (svc *CollexService) GetExercisesBySurvey(ctx context.Context, surveyID string) ([]collex.CollectionExercise, error) {
	var dtos []exerciseDTO
	if err := svc.client.get(ctx, "/collectionexercises/survey/"+surveyID, nil, &dtos); err != nil {
		if isNotFound(err) {
			return nil, nil // no exercises yet
		}
		return nil, errors.Wrap(err, "listing collection exercises")
	}
	exercises := make([]collex.CollectionExercise, 0, len(dtos))
	for _, dto := range dtos {
		ce, err := dto.toExercise()
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, ce)
	}
	return exercises, nil
}

func (svc *CollexService) GetLinkedSampleSummary(ctx context.Context, exerciseID uuid.UUID) (string, bool, error) {
	var ids []string
	if err := svc.client.get(ctx, "/collectionexercises/link/"+exerciseID.String(), nil, &ids); err != nil {
		if isNotFound(err) {
			return "", false, nil // no sample linked yet
		}
		return "", false, errors.Wrap(err, "getting linked sample summary")
	}
	if len(ids) == 0 {
		return "", false, nil
	}
	return ids[0], true, nil
}

func (svc *CollexService) GetEvents(ctx context.Context, exerciseID uuid.UUID) ([]collex.Event, error) {
	var dtos []eventDTO
	if err := svc.client.get(ctx, "/collectionexercises/"+exerciseID.String()+"/events", nil, &dtos); err != nil {
		if isNotFound(err) {
			return nil, collex.ErrNotFound
		}
		return nil, errors.Wrap(err, "listing collection exercise events")
	}
	events := make([]collex.Event, 0, len(dtos))
	for _, dto := range dtos {
		ts, err := parseEventTime(dto.Timestamp)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %q event timestamp", dto.Tag)
		}
		events = append(events, collex.Event{Tag: collex.Tag(dto.Tag), Timestamp: ts})
	}
	return events, nil
}

func (svc *CollexService) CreateEvent(ctx context.Context, exerciseID uuid.UUID, ev collex.Event) error {
	dto := eventDTO{Tag: string(ev.Tag), Timestamp: ev.Timestamp.Format(eventTimeFmt)}
	err := svc.client.post(ctx, "/collectionexercises/"+exerciseID.String()+"/events", dto, nil)
	return errors.Wrap(err, "creating collection exercise event")
}

func (svc *CollexService) UpdateEvent(ctx context.Context, exerciseID uuid.UUID, ev collex.Event) error {
	dto := eventDTO{Tag: string(ev.Tag), Timestamp: ev.Timestamp.Format(eventTimeFmt)}
	path := fmt.Sprintf("/collectionexercises/%s/events/%s", exerciseID, ev.Tag)
	err := svc.client.put(ctx, path, dto, nil)
	return errors.Wrap(err, "updating collection exercise event")
}

func (svc *CollexService) DeleteEvent(ctx context.Context, exerciseID uuid.UUID, tag collex.Tag) error {
	path := fmt.Sprintf("/collectionexercises/%s/events/%s", exerciseID, tag)
	err := svc.client.delete(ctx, path)
	return errors.Wrap(err, "deleting collection exercise event")
}

func (dto exerciseDTO) toExercise() (collex.CollectionExercise, error) {
	ce := collex.CollectionExercise{
		ID:              dto.ID,
		SurveyID:        dto.SurveyID,
		ExerciseRef:     dto.ExerciseRef,
		UserDescription: dto.UserDescription,
		State:           collex.State(dto.State),
	}
	if dto.ScheduledStart != nil && *dto.ScheduledStart != "" {
		ts, err := parseEventTime(*dto.ScheduledStart)
		if err != nil {
			return collex.CollectionExercise{}, errors.Wrap(err, "parsing scheduled start")
		}
		ce.ScheduledStart = null.TimeFrom(ts)
	}
	return ce, nil
}

func parseEventTime(s string) (time.Time, error) {
	ts, err := time.Parse(eventTimeFmt, s)
	if err != nil {
		// some services omit the milliseconds
		ts, err = time.Parse(time.RFC3339, s)
	}
	return ts.UTC(), err
}
