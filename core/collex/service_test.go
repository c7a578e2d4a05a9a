package collex

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/surveyops/respops/core"
)

type fakeRepo struct {
	exercise CollectionExercise
	events   []Event
	sample   *SampleSummary

	created []Event
	updated []Event
	deleted []Tag
}

var (
	_ Repository   = (*fakeRepo)(nil)
	_ EventWriter  = (*fakeRepo)(nil)
	_ SampleGetter = (*fakeRepo)(nil)
)

func (r *fakeRepo) GetExercise(context.Context, uuid.UUID) (CollectionExercise, error) {
	return r.exercise, nil
}

func (r *fakeRepo) GetExercisesBySurvey(context.Context, string) ([]CollectionExercise, error) {
	return []CollectionExercise{r.exercise}, nil
}

func (r *fakeRepo) GetEvents(context.Context, uuid.UUID) ([]Event, error) {
	return r.events, nil
}

func (r *fakeRepo) GetLinkedSampleSummary(context.Context, uuid.UUID) (string, bool, error) {
	if r.sample == nil {
		return "", false, nil
	}
	return r.sample.ID, true, nil
}

func (r *fakeRepo) GetSampleSummary(_ context.Context, id string) (SampleSummary, error) {
	if r.sample == nil || r.sample.ID != id {
		return SampleSummary{}, ErrSampleNotFound
	}
	return *r.sample, nil
}

func (r *fakeRepo) CreateEvent(_ context.Context, _ uuid.UUID, ev Event) error {
	r.created = append(r.created, ev)
	return nil
}

func (r *fakeRepo) UpdateEvent(_ context.Context, _ uuid.UUID, ev Event) error {
	r.updated = append(r.updated, ev)
	return nil
}

func (r *fakeRepo) DeleteEvent(_ context.Context, _ uuid.UUID, tag Tag) error {
	r.deleted = append(r.deleted, tag)
	return nil
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, repo, repo, core.NewFixedClock(testNow))
}

func TestServiceExerciseView(t *testing.T) {
	day := 24 * time.Hour
	repo := &fakeRepo{
		exercise: CollectionExercise{
			ID:             uuid.New(),
			ExerciseRef:    "202603",
			State:          StateScheduled,
			ScheduledStart: null.TimeFrom(testNow.Add(day)),
		},
		events: []Event{
			{Tag: TagGoLive, Timestamp: testNow.Add(day)},
			{Tag: TagReturnBy, Timestamp: testNow.Add(10 * day)},
			{Tag: "reminder", Timestamp: testNow.Add(12 * day)},
			{Tag: "reminder3", Timestamp: testNow.Add(14 * day)},
		},
		sample: &SampleSummary{
			ID:                            "8a5f6a61-77cc-4b3d-a5a3-0a31a9e07e22",
			State:                         "ACTIVE",
			TotalSampleUnits:              650,
			ExpectedCollectionInstruments: 1,
		},
	}
	svc := newTestService(repo)

	view, err := svc.ExerciseView(context.Background(), repo.exercise.ID, true)
	if err != nil {
		t.Fatalf("ExerciseView() error = %v", err)
	}
	if view.Locked {
		t.Error("scheduled exercise should not be locked")
	}

	rows := make(map[Tag]Row, len(view.Rows))
	for _, row := range view.Rows {
		rows[row.Tag] = row
	}

	// the gap at reminder2 is offered as the next add slot, unlabelled
	gap, ok := rows["reminder2"]
	if !ok {
		t.Fatal("expected a row for the reminder2 gap")
	}
	if gap.Label != "" || gap.HyperlinkText != "Add reminder" {
		t.Errorf("gap row = label %q link %q, want unlabelled Add reminder", gap.Label, gap.HyperlinkText)
	}
	// reminder4/reminder5 are not offered until the gap is filled
	if _, ok := rows["reminder4"]; ok {
		t.Error("reminder4 should not be offered while reminder2 is empty")
	}

	if got := view.Restrictions["reminder3"]; len(got) == 0 || got[0] != "Must be after First reminder "+Format(repo.events[2], testNow).Day+" "+Format(repo.events[2], testNow).Date+" "+Format(repo.events[2], testNow).Time {
		t.Errorf("reminder3 restrictions = %q", got)
	}

	if view.NextKeyDate == nil || view.NextKeyDate.Tag != TagGoLive {
		t.Errorf("NextKeyDate = %+v, want go_live", view.NextKeyDate)
	}

	if view.Sample == nil || view.Sample.TotalSampleUnits != 650 {
		t.Errorf("Sample = %+v, want the linked summary with 650 units", view.Sample)
	}
}

func TestServiceExerciseViewWithoutSample(t *testing.T) {
	repo := &fakeRepo{
		exercise: CollectionExercise{ID: uuid.New(), State: StateCreated},
	}
	svc := newTestService(repo)

	view, err := svc.ExerciseView(context.Background(), repo.exercise.ID, false)
	if err != nil {
		t.Fatalf("ExerciseView() error = %v", err)
	}
	if view.Sample != nil {
		t.Errorf("Sample = %+v, want none for an unlinked exercise", view.Sample)
	}
}

func TestServiceSubmitEvent(t *testing.T) {
	day := 24 * time.Hour
	repo := &fakeRepo{
		exercise: CollectionExercise{ID: uuid.New(), State: StateScheduled},
		events:   []Event{{Tag: TagGoLive, Timestamp: testNow.Add(day)}},
	}
	svc := newTestService(repo)
	ctx := context.Background()

	// past date for a non-exempt tag fails validation, nothing written
	if err := svc.SubmitEvent(ctx, repo.exercise.ID, TagReturnBy, testNow.Add(-day)); err == nil {
		t.Error("SubmitEvent() with past date should fail")
	}
	if len(repo.created)+len(repo.updated) != 0 {
		t.Fatal("failed validation must not reach the writer")
	}

	// new tag creates
	if err := svc.SubmitEvent(ctx, repo.exercise.ID, TagReturnBy, testNow.Add(5*day)); err != nil {
		t.Fatalf("SubmitEvent() create error = %v", err)
	}
	if len(repo.created) != 1 || repo.created[0].Tag != TagReturnBy {
		t.Errorf("created = %+v, want one return_by event", repo.created)
	}

	// existing tag updates
	if err := svc.SubmitEvent(ctx, repo.exercise.ID, TagGoLive, testNow.Add(2*day)); err != nil {
		t.Fatalf("SubmitEvent() update error = %v", err)
	}
	if len(repo.updated) != 1 || repo.updated[0].Tag != TagGoLive {
		t.Errorf("updated = %+v, want one go_live event", repo.updated)
	}

	// exempt tag accepts a past date
	if err := svc.SubmitEvent(ctx, repo.exercise.ID, TagRefPeriodStart, testNow.Add(-30*day)); err != nil {
		t.Errorf("SubmitEvent() exempt past date error = %v", err)
	}
}

func TestServiceSubmitEventOrdering(t *testing.T) {
	day := 24 * time.Hour
	repo := &fakeRepo{
		exercise: CollectionExercise{ID: uuid.New(), State: StateScheduled},
		events: []Event{
			{Tag: TagGoLive, Timestamp: testNow.Add(day)},
			{Tag: TagReturnBy, Timestamp: testNow.Add(5 * day)},
		},
	}
	svc := newTestService(repo)
	ctx := context.Background()

	// go_live after return_by breaks the precedence chain, nothing written
	err := svc.SubmitEvent(ctx, repo.exercise.ID, TagGoLive, testNow.Add(10*day))
	if err == nil {
		t.Fatal("SubmitEvent() with go_live after return_by should fail")
	}
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("error = %T, want *core.ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "go_live" {
		t.Errorf("fields = %+v, want one error on go_live", vErr.Fields)
	}
	if len(repo.created)+len(repo.updated) != 0 {
		t.Fatal("failed ordering validation must not reach the writer")
	}

	// moving go_live within its neighbours still updates
	if err := svc.SubmitEvent(ctx, repo.exercise.ID, TagGoLive, testNow.Add(2*day)); err != nil {
		t.Fatalf("SubmitEvent() update error = %v", err)
	}
	if len(repo.updated) != 1 || repo.updated[0].Tag != TagGoLive {
		t.Errorf("updated = %+v, want one go_live event", repo.updated)
	}
}

func TestServiceCurrentExerciseForSurvey(t *testing.T) {
	repo := &fakeRepo{
		exercise: CollectionExercise{
			ID:             uuid.New(),
			ExerciseRef:    "202603",
			State:          StateLive,
			ScheduledStart: null.TimeFrom(testNow.Add(-24 * time.Hour)),
		},
	}
	svc := newTestService(repo)

	ex, ok, err := svc.CurrentExerciseForSurvey(context.Background(), "cb8accda-6118-4d3b-85a3-149e28960c54")
	if err != nil || !ok {
		t.Fatalf("CurrentExerciseForSurvey() = %v, %v", ok, err)
	}
	if ex.ExerciseRef != "202603" {
		t.Errorf("ref = %q, want 202603", ex.ExerciseRef)
	}
}
