package collex

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

func TestNearestFutureEvent(t *testing.T) {
	day := 24 * time.Hour

	tests := []struct {
		name    string
		events  []Event
		wantTag Tag
		wantOK  bool
	}{
		{name: "empty input", events: nil},
		{
			name: "all past",
			events: []Event{
				{Tag: TagGoLive, Timestamp: testNow.Add(-10 * day)},
				{Tag: TagReturnBy, Timestamp: testNow.Add(-2 * day)},
			},
		},
		{
			name: "mixed picks soonest future",
			events: []Event{
				{Tag: TagExerciseEnd, Timestamp: testNow.Add(10 * day)},
				{Tag: TagReturnBy, Timestamp: testNow.Add(2 * day)},
				{Tag: TagGoLive, Timestamp: testNow.Add(-1 * day)},
			},
			wantTag: TagReturnBy,
			wantOK:  true,
		},
		{
			name: "exactly now is not future",
			events: []Event{
				{Tag: TagGoLive, Timestamp: testNow},
			},
		},
		{
			name: "reference period and employment are not key dates",
			events: []Event{
				{Tag: TagRefPeriodStart, Timestamp: testNow.Add(1 * day)},
				{Tag: TagRefPeriodEnd, Timestamp: testNow.Add(2 * day)},
				{Tag: TagEmployment, Timestamp: testNow.Add(3 * day)},
				{Tag: TagReturnBy, Timestamp: testNow.Add(20 * day)},
			},
			wantTag: TagReturnBy,
			wantOK:  true,
		},
		{
			name: "first encountered wins on exact tie",
			events: []Event{
				{Tag: TagGoLive, Timestamp: testNow.Add(2 * day)},
				{Tag: TagReturnBy, Timestamp: testNow.Add(2 * day)},
			},
			wantTag: TagGoLive,
			wantOK:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := NearestFutureEvent(tt.events, testNow)
			if ok != tt.wantOK {
				t.Fatalf("NearestFutureEvent() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && ev.Tag != tt.wantTag {
				t.Errorf("NearestFutureEvent() tag = %q, want %q", ev.Tag, tt.wantTag)
			}
		})
	}
}

func exercise(ref string, state State, start time.Time) CollectionExercise {
	return CollectionExercise{
		ID:             uuid.New(),
		ExerciseRef:    ref,
		State:          state,
		ScheduledStart: null.TimeFrom(start),
	}
}

func TestCurrentExercise(t *testing.T) {
	day := 24 * time.Hour

	tests := []struct {
		name      string
		exercises []CollectionExercise
		wantRef   string
		wantOK    bool
	}{
		{name: "empty input"},
		{
			name: "all without scheduled start",
			exercises: []CollectionExercise{
				{ID: uuid.New(), ExerciseRef: "201806", State: StateLive},
				{ID: uuid.New(), ExerciseRef: "201809", State: StateCreated},
			},
		},
		{
			name: "past live preferred over upcoming",
			exercises: []CollectionExercise{
				exercise("202606", StateCreated, testNow.Add(5*day)),
				exercise("202603", StateLive, testNow.Add(-10*day)),
			},
			wantRef: "202603",
			wantOK:  true,
		},
		{
			name: "most recent past start wins among live-ish",
			exercises: []CollectionExercise{
				exercise("202512", StateEnded, testNow.Add(-100*day)),
				exercise("202603", StateReadyForLive, testNow.Add(-3*day)),
				exercise("202601", StateLive, testNow.Add(-40*day)),
			},
			wantRef: "202603",
			wantOK:  true,
		},
		{
			name: "past exercise in early state is not trusted",
			exercises: []CollectionExercise{
				exercise("202603", StateCreated, testNow.Add(-3*day)),
				exercise("202606", StateScheduled, testNow.Add(8*day)),
			},
			wantRef: "202606",
			wantOK:  true,
		},
		{
			name: "soonest upcoming wins when nothing live-ish in the past",
			exercises: []CollectionExercise{
				exercise("202609", StateCreated, testNow.Add(90*day)),
				exercise("202606", StateReadyForReview, testNow.Add(8*day)),
			},
			wantRef: "202606",
			wantOK:  true,
		},
		{
			name: "first encountered wins on identical starts",
			exercises: []CollectionExercise{
				exercise("202603", StateLive, testNow.Add(-day)),
				exercise("202604", StateLive, testNow.Add(-day)),
			},
			wantRef: "202603",
			wantOK:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, ok := CurrentExercise(tt.exercises, testNow)
			if ok != tt.wantOK {
				t.Fatalf("CurrentExercise() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && ex.ExerciseRef != tt.wantRef {
				t.Errorf("CurrentExercise() ref = %q, want %q", ex.ExerciseRef, tt.wantRef)
			}
		})
	}
}
