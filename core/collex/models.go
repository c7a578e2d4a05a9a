package collex

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Tag identifies a named key date within a collection exercise.
type Tag string

// Fixed key date tags.
const (
	TagMPS            Tag = "mps"
	TagGoLive         Tag = "go_live"
	TagReturnBy       Tag = "return_by"
	TagExerciseEnd    Tag = "exercise_end"
	TagRefPeriodStart Tag = "ref_period_start"
	TagRefPeriodEnd   Tag = "ref_period_end"
	TagEmployment     Tag = "employment"
)

// Non-event display rows; these never carry timestamps.
const (
	TagPeriodID        Tag = "period_id"
	TagReportingPeriod Tag = "reporting_period"
)

// SeriesLen is the bounded length of the reminder and nudge email series.
const SeriesLen = 5

// SampleSummary describes the sample loaded for a collection exercise.
type SampleSummary struct {
	ID                            string `json:"id"`
	State                         string `json:"state"`
	TotalSampleUnits              int    `json:"total_sample_units"`
	ExpectedCollectionInstruments int    `json:"expected_collection_instruments"`
}

var (
	// ReminderTags are the ordered slots of the reminder series.
	ReminderTags = [SeriesLen]Tag{"reminder", "reminder2", "reminder3", "reminder4", "reminder5"}

	// NudgeTags are the ordered slots of the nudge email series.
	NudgeTags = [SeriesLen]Tag{"nudge_email_0", "nudge_email_1", "nudge_email_2", "nudge_email_3", "nudge_email_4"}

	baseLabels = map[Tag]string{
		TagMPS:             "Main print selection",
		TagGoLive:          "Go Live",
		TagReturnBy:        "Return by",
		TagExerciseEnd:     "Exercise end",
		TagRefPeriodStart:  "Reference period start",
		TagRefPeriodEnd:    "Reference period end",
		TagEmployment:      "Employment date",
		TagPeriodID:        "Period ID",
		TagReportingPeriod: "Reporting period",
	}

	// pastExemptTags may carry timestamps in the past; every other tag
	// must be scheduled in the future.
	pastExemptTags = map[Tag]bool{
		TagRefPeriodStart: true,
		TagRefPeriodEnd:   true,
		TagEmployment:     true,
	}

	// nonKeyDateTags are excluded from "next key date" selection.
	nonKeyDateTags = pastExemptTags
)

// IsReminder reports whether tag is a slot of the reminder series.
func (t Tag) IsReminder() bool { return seriesIndex(ReminderTags, t) >= 0 }

// IsNudge reports whether tag is a slot of the nudge email series.
func (t Tag) IsNudge() bool { return seriesIndex(NudgeTags, t) >= 0 }

// PastExempt reports whether tag may be scheduled in the past.
func (t Tag) PastExempt() bool { return pastExemptTags[t] }

func seriesIndex(tags [SeriesLen]Tag, t Tag) int {
	for i, tag := range tags {
		if tag == t {
			return i
		}
	}
	return -1
}

// Event is a single scheduled occurrence within a collection exercise.
// Timestamps are UTC on the wire; display is Europe/London.
type Event struct {
	Tag       Tag       `json:"tag"`
	Timestamp time.Time `json:"timestamp"`
}

// EventSet is an input-order-preserving collection of events keyed by tag.
// Within one exercise at most one event exists per tag; a tag with no
// event is absent, never a zero value.
type EventSet struct {
	events []Event
	byTag  map[Tag]Event
}

func NewEventSet(events []Event) EventSet {
	set := EventSet{
		events: make([]Event, 0, len(events)),
		byTag:  make(map[Tag]Event, len(events)),
	}
	for _, ev := range events {
		if _, dup := set.byTag[ev.Tag]; dup {
			continue // first one wins, upholding the one-event-per-tag invariant
		}
		set.byTag[ev.Tag] = ev
		set.events = append(set.events, ev)
	}
	return set
}

func (set EventSet) Get(tag Tag) (Event, bool) {
	ev, ok := set.byTag[tag]
	return ev, ok
}

func (set EventSet) Has(tag Tag) bool {
	_, ok := set.byTag[tag]
	return ok
}

// All returns the events in input order.
func (set EventSet) All() []Event { return set.events }

func (set EventSet) Len() int { return len(set.events) }

// State is the lifecycle state of a collection exercise, owned by the
// collection-exercise service.
type State string

const (
	StateCreated          State = "CREATED"
	StateScheduled        State = "SCHEDULED"
	StateReadyForReview   State = "READY_FOR_REVIEW"
	StateFailedValidation State = "FAILEDVALIDATION"
	StateExecutionStarted State = "EXECUTION_STARTED"
	StateValidated        State = "VALIDATED"
	StateExecuted         State = "EXECUTED"
	StateReadyForLive     State = "READY_FOR_LIVE"
	StateLive             State = "LIVE"
	StateEnded            State = "ENDED"
)

// Locked reports whether the exercise state disallows most event edits.
func (s State) Locked() bool {
	switch s {
	case StateExecutionStarted, StateValidated, StateExecuted, StateReadyForLive, StateLive, StateEnded:
		return true
	case StateCreated, StateScheduled, StateReadyForReview, StateFailedValidation:
		return false
	default: // unknown states stay locked; edits on them cannot be trusted
		return true
	}
}

// liveish states are assumed correctly configured; see CurrentExercise.
func (s State) liveish() bool {
	return s == StateReadyForLive || s == StateLive || s == StateEnded
}

// CollectionExercise is one scheduled run of a survey for a reference
// period. This package never mutates exercises; it only derives views.
type CollectionExercise struct {
	ID              uuid.UUID `json:"id"`
	SurveyID        string    `json:"surveyId"`
	ExerciseRef     string    `json:"exerciseRef"`
	UserDescription string    `json:"userDescription"`
	State           State     `json:"state"`
	ScheduledStart  null.Time `json:"scheduledStartDateTime"`
}

func (ce CollectionExercise) Locked() bool { return ce.State.Locked() }

// london is the display timezone; comparisons against "now" happen on the
// underlying instants, so a UTC fallback only degrades formatting.
var london *time.Location

func init() {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		loc = time.UTC
	}
	london = loc
}

// FormattedEvent carries the display fields derived from an Event.
type FormattedEvent struct {
	Tag       Tag       `json:"tag"`
	Label     string    `json:"label"`
	Day       string    `json:"day"`  // "Monday"
	Date      string    `json:"date"` // "02 January 2006"
	Time      string    `json:"time"` // "15:04", Europe/London
	Timestamp time.Time `json:"timestamp"`
	InFuture  bool      `json:"in_future"` // strictly after "now" at render time
}

// Format derives the display fields for ev relative to now.
func Format(ev Event, now time.Time) FormattedEvent {
	local := ev.Timestamp.In(london)
	return FormattedEvent{
		Tag:       ev.Tag,
		Label:     baseLabels[ev.Tag],
		Day:       local.Format("Monday"),
		Date:      local.Format("02 January 2006"),
		Time:      local.Format("15:04"),
		Timestamp: ev.Timestamp,
		InFuture:  ev.Timestamp.After(now),
	}
}

// Label returns the human name for tag, with series tags labelled by
// their populated ordinal position within events (compaction applied).
// The second return is false for unrecognised tags.
func Label(tag Tag, events EventSet) (string, bool) {
	if lbl, ok := baseLabels[tag]; ok {
		return lbl, true
	}
	if tag.IsReminder() {
		return NewSeries(SeriesReminder, events).label(tag), true
	}
	if tag.IsNudge() {
		return NewSeries(SeriesNudge, events).label(tag), true
	}
	return "", false
}
