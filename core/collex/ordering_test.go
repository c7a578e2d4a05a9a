package collex

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

func eventsAt(tags ...Tag) EventSet {
	events := make([]Event, 0, len(tags))
	for i, tag := range tags {
		events = append(events, Event{Tag: tag, Timestamp: testNow.Add(time.Duration(i+1) * 24 * time.Hour)})
	}
	return NewEventSet(events)
}

func tagsEqual(a, b []Tag) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestConstraintTags(t *testing.T) {
	tests := []struct {
		name       string
		tag        Tag
		events     EventSet
		wantAfter  []Tag
		wantBefore []Tag
		wantOK     bool
	}{
		{name: "mps", tag: TagMPS, wantBefore: []Tag{TagGoLive}, wantOK: true},
		{name: "go live", tag: TagGoLive, wantAfter: []Tag{TagMPS}, wantBefore: []Tag{TagReturnBy}, wantOK: true},
		{name: "return by", tag: TagReturnBy, wantAfter: []Tag{TagGoLive}, wantBefore: []Tag{TagExerciseEnd}, wantOK: true},
		{name: "exercise end", tag: TagExerciseEnd, wantAfter: []Tag{TagReturnBy}, wantOK: true},
		{name: "ref period start only constrains its pair", tag: TagRefPeriodStart, wantBefore: []Tag{TagRefPeriodEnd}, wantOK: true},
		{name: "ref period end only constrains its pair", tag: TagRefPeriodEnd, wantAfter: []Tag{TagRefPeriodStart}, wantOK: true},
		{name: "employment unconstrained", tag: TagEmployment, wantOK: true},
		{name: "unknown tag degrades to empty", tag: Tag("go_lvie"), wantOK: false},
		{
			name:       "lone reminder bounded by anchors",
			tag:        Tag("reminder"),
			events:     eventsAt("reminder"),
			wantAfter:  []Tag{TagReturnBy},
			wantBefore: []Tag{TagExerciseEnd},
			wantOK:     true,
		},
		{
			name:       "sparse reminder skips absent slot",
			tag:        Tag("reminder3"),
			events:     eventsAt("reminder", "reminder3"),
			wantAfter:  []Tag{"reminder"},
			wantBefore: []Tag{TagExerciseEnd},
			wantOK:     true,
		},
		{
			name:       "first of sparse pair looks forward past the gap",
			tag:        Tag("reminder"),
			events:     eventsAt("reminder", "reminder3"),
			wantAfter:  []Tag{TagReturnBy},
			wantBefore: []Tag{"reminder3"},
			wantOK:     true,
		},
		{
			name:       "middle nudge email",
			tag:        Tag("nudge_email_2"),
			events:     eventsAt("nudge_email_0", "nudge_email_2", "nudge_email_4"),
			wantAfter:  []Tag{"nudge_email_0"},
			wantBefore: []Tag{"nudge_email_4"},
			wantOK:     true,
		},
		{
			name:       "nudge series bounded by go live and return by",
			tag:        Tag("nudge_email_0"),
			events:     eventsAt("nudge_email_0"),
			wantAfter:  []Tag{TagGoLive},
			wantBefore: []Tag{TagReturnBy},
			wantOK:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cons, ok := ConstraintTags(tt.tag, tt.events)
			if ok != tt.wantOK {
				t.Fatalf("ConstraintTags() ok = %v, want %v", ok, tt.wantOK)
			}
			if !tagsEqual(cons.After, tt.wantAfter) {
				t.Errorf("ConstraintTags() after = %v, want %v", cons.After, tt.wantAfter)
			}
			if !tagsEqual(cons.Before, tt.wantBefore) {
				t.Errorf("ConstraintTags() before = %v, want %v", cons.Before, tt.wantBefore)
			}
		})
	}
}

func TestSeriesCompaction(t *testing.T) {
	// slots 1 and 3 populated, slot 2 absent
	events := eventsAt("reminder", "reminder3")
	series := NewSeries(SeriesReminder, events)

	entries := series.Populated()
	if len(entries) != 2 {
		t.Fatalf("Populated() len = %d, want 2", len(entries))
	}
	if entries[0].Label != "First reminder" {
		t.Errorf("entries[0].Label = %q, want %q", entries[0].Label, "First reminder")
	}
	// reminder3 is renumbered to the second populated position
	if entries[1].Tag != "reminder3" || entries[1].Label != "Second reminder" {
		t.Errorf("entries[1] = %q/%q, want reminder3/Second reminder", entries[1].Tag, entries[1].Label)
	}

	// the next offered slot is the gap at index 2, not index 4
	next, ok := series.NextFree()
	if !ok || next != "reminder2" {
		t.Errorf("NextFree() = %q, %v; want reminder2, true", next, ok)
	}

	// an unpopulated slot has no label
	if lbl := series.label("reminder2"); lbl != "" {
		t.Errorf("label(reminder2) = %q, want empty", lbl)
	}
}

func TestSeriesNextFreeFull(t *testing.T) {
	events := eventsAt("nudge_email_0", "nudge_email_1", "nudge_email_2", "nudge_email_3", "nudge_email_4")
	series := NewSeries(SeriesNudge, events)
	if next, ok := series.NextFree(); ok {
		t.Errorf("NextFree() = %q, want none on a full series", next)
	}
}

func TestEventSetOneEventPerTag(t *testing.T) {
	first := Event{Tag: TagGoLive, Timestamp: testNow}
	second := Event{Tag: TagGoLive, Timestamp: testNow.Add(time.Hour)}
	set := NewEventSet([]Event{first, second})

	if set.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", set.Len())
	}
	got, _ := set.Get(TagGoLive)
	if !got.Timestamp.Equal(first.Timestamp) {
		t.Errorf("Get(go_live) = %v, want the first event kept", got.Timestamp)
	}
}
