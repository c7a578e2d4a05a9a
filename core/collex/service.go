package collex

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/surveyops/respops/core"
)

var (
	// errors
	ErrNotFound       = errors.New("collection exercise not found")
	ErrSampleNotFound = errors.New("sample summary not found")
)

type (
	// Repository supplies exercises and their events; this service only
	// ever reads through it.
	Repository interface {
		GetExercise(ctx context.Context, id uuid.UUID) (CollectionExercise, error)
		GetExercisesBySurvey(ctx context.Context, surveyID string) ([]CollectionExercise, error)
		GetEvents(ctx context.Context, exerciseID uuid.UUID) ([]Event, error)
		// GetLinkedSampleSummary resolves the sample summary ID linked to
		// an exercise; ok is false when no sample has been linked yet.
		GetLinkedSampleSummary(ctx context.Context, exerciseID uuid.UUID) (string, bool, error)
	}

	// SampleGetter fronts the sample service.
	SampleGetter interface {
		GetSampleSummary(ctx context.Context, sampleSummaryID string) (SampleSummary, error)
	}

	// EventWriter accepts validated event mutations; the transport and
	// any cross-field checks the collection-exercise service performs on
	// its side are its own concern.
	EventWriter interface {
		CreateEvent(ctx context.Context, exerciseID uuid.UUID, ev Event) error
		UpdateEvent(ctx context.Context, exerciseID uuid.UUID, ev Event) error
		DeleteEvent(ctx context.Context, exerciseID uuid.UUID, tag Tag) error
	}

	Service struct {
		repo    Repository
		writer  EventWriter
		samples SampleGetter
		clock   core.Clock
	}
)

func NewService(repo Repository, writer EventWriter, samples SampleGetter, clock core.Clock) *Service {
	return &Service{repo: repo, writer: writer, samples: samples, clock: clock}
}

// ExerciseView is the assembled read model for one collection exercise.
type ExerciseView struct {
	Exercise     CollectionExercise `json:"exercise"`
	Locked       bool               `json:"locked"`
	Rows         []Row              `json:"rows"`
	Restrictions map[Tag][]string   `json:"restrictions"`
	NextKeyDate  *FormattedEvent    `json:"next_key_date,omitempty"`
	Sample       *SampleSummary     `json:"sample,omitempty"`
}

// displayTags returns the row order for the event table: the main chain
// with each series' populated slots plus its next free slot inline, then
// the side chain and the non-event rows.
func displayTags(events EventSet) []Tag {
	tags := make([]Tag, 0, 2*SeriesLen+9)
	tags = append(tags, TagMPS, TagGoLive)
	tags = appendSeries(tags, SeriesNudge, events)
	tags = append(tags, TagReturnBy)
	tags = appendSeries(tags, SeriesReminder, events)
	tags = append(tags,
		TagExerciseEnd,
		TagRefPeriodStart, TagRefPeriodEnd, TagEmployment,
		TagPeriodID, TagReportingPeriod,
	)
	return tags
}

func appendSeries(tags []Tag, kind SeriesKind, events EventSet) []Tag {
	series := NewSeries(kind, events)
	for _, entry := range series.Populated() {
		tags = append(tags, entry.Tag)
	}
	if next, ok := series.NextFree(); ok {
		tags = append(tags, next)
	}
	return tags
}

// ExerciseView assembles the full event table, restriction text and edit
// affordances for one exercise. canEdit is the caller's permission.
func (svc *Service) ExerciseView(ctx context.Context, exerciseID uuid.UUID, canEdit bool) (ExerciseView, error) {
	ex, err := svc.repo.GetExercise(ctx, exerciseID)
	if err != nil {
		return ExerciseView{}, pkgerrors.Wrap(err, "getting exercise")
	}
	rawEvents, err := svc.repo.GetEvents(ctx, exerciseID)
	if err != nil {
		return ExerciseView{}, pkgerrors.Wrap(err, "getting exercise events")
	}

	now := svc.clock.Now()
	events := NewEventSet(rawEvents)
	policy := EditPolicy{CanEdit: canEdit, Locked: ex.Locked()}

	view := ExerciseView{
		Exercise:     ex,
		Locked:       ex.Locked(),
		Restrictions: make(map[Tag][]string),
	}
	for _, tag := range displayTags(events) {
		view.Rows = append(view.Rows, EventRow(tag, events, policy, now))
		if text := RestrictionText(tag, events, now); len(text) > 0 {
			view.Restrictions[tag] = text
		}
	}
	if next, ok := NearestFutureEvent(events.All(), now); ok {
		f := Format(next, now)
		view.NextKeyDate = &f
	}

	sampleID, linked, err := svc.repo.GetLinkedSampleSummary(ctx, exerciseID)
	if err != nil {
		return ExerciseView{}, pkgerrors.Wrap(err, "getting linked sample summary")
	}
	if linked {
		summary, err := svc.samples.GetSampleSummary(ctx, sampleID)
		switch {
		case err == ErrSampleNotFound:
			// stale link; the view still renders without a sample
		case err != nil:
			return ExerciseView{}, pkgerrors.Wrap(err, "getting sample summary")
		default:
			view.Sample = &summary
		}
	}
	return view, nil
}

// SubmitEvent validates a proposed event date against the past-date rule
// and its ordering neighbours, then delegates the write: update when the
// tag already has an event, create otherwise.
func (svc *Service) SubmitEvent(ctx context.Context, exerciseID uuid.UUID, tag Tag, timestamp time.Time) error {
	if err := ValidateProposed(tag, timestamp, svc.clock.Now()); err != nil {
		return err
	}

	rawEvents, err := svc.repo.GetEvents(ctx, exerciseID)
	if err != nil {
		return pkgerrors.Wrap(err, "getting exercise events")
	}
	events := NewEventSet(rawEvents)
	if err := ValidateOrdering(tag, timestamp, events); err != nil {
		return err
	}

	ev := Event{Tag: tag, Timestamp: timestamp.UTC()}
	if events.Has(tag) {
		return pkgerrors.Wrap(svc.writer.UpdateEvent(ctx, exerciseID, ev), "updating event")
	}
	return pkgerrors.Wrap(svc.writer.CreateEvent(ctx, exerciseID, ev), "creating event")
}

// DeleteEvent removes the event for tag, if any.
func (svc *Service) DeleteEvent(ctx context.Context, exerciseID uuid.UUID, tag Tag) error {
	return pkgerrors.Wrap(svc.writer.DeleteEvent(ctx, exerciseID, tag), "deleting event")
}

// Exercises lists all of a survey's collection exercises.
func (svc *Service) Exercises(ctx context.Context, surveyID string) ([]CollectionExercise, error) {
	return svc.repo.GetExercisesBySurvey(ctx, surveyID)
}

// Current applies the "current exercise" selection over an already-fetched
// exercise list.
func (svc *Service) Current(exercises []CollectionExercise) (CollectionExercise, bool) {
	return CurrentExercise(exercises, svc.clock.Now())
}

// CurrentExerciseForSurvey applies the "current exercise" selection over
// all of a survey's exercises.
func (svc *Service) CurrentExerciseForSurvey(ctx context.Context, surveyID string) (CollectionExercise, bool, error) {
	exercises, err := svc.repo.GetExercisesBySurvey(ctx, surveyID)
	if err != nil {
		return CollectionExercise{}, false, pkgerrors.Wrap(err, "getting survey exercises")
	}
	ex, ok := CurrentExercise(exercises, svc.clock.Now())
	return ex, ok, nil
}

// NextKeyDate returns the formatted nearest future key date of an exercise.
func (svc *Service) NextKeyDate(ctx context.Context, exerciseID uuid.UUID) (FormattedEvent, bool, error) {
	rawEvents, err := svc.repo.GetEvents(ctx, exerciseID)
	if err != nil {
		return FormattedEvent{}, false, pkgerrors.Wrap(err, "getting exercise events")
	}
	now := svc.clock.Now()
	ev, ok := NearestFutureEvent(rawEvents, now)
	if !ok {
		return FormattedEvent{}, false, nil
	}
	return Format(ev, now), true, nil
}
