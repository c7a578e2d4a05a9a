package collex

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Constraints names the tags an event must be scheduled after and before.
type Constraints struct {
	After  []Tag
	Before []Tag
}

// fixed precedence chain:
//
//	mps -> go_live -> [nudge_email_0..4]* -> return_by -> [reminder..reminder5]* -> exercise_end
//
// side chain: ref_period_start -> ref_period_end; employment is unconstrained.
var constraintTable = map[Tag]Constraints{
	TagMPS:            {Before: []Tag{TagGoLive}},
	TagGoLive:         {After: []Tag{TagMPS}, Before: []Tag{TagReturnBy}},
	TagReturnBy:       {After: []Tag{TagGoLive}, Before: []Tag{TagExerciseEnd}},
	TagExerciseEnd:    {After: []Tag{TagReturnBy}},
	TagRefPeriodStart: {Before: []Tag{TagRefPeriodEnd}},
	TagRefPeriodEnd:   {After: []Tag{TagRefPeriodStart}},
	TagEmployment:     {},
}

// ConstraintTags reports the ordering constraints for tag. Series tags are
// constrained by their immediate neighbours within the *populated* subset
// of their series, not by the full fixed-length series.
// ok is false when the tag is not recognised at all; callers wanting the
// historical permissive behaviour can ignore it and use the zero value.
func ConstraintTags(tag Tag, events EventSet) (cons Constraints, ok bool) {
	if cons, ok := constraintTable[tag]; ok {
		return cons, true
	}
	if tag.IsReminder() {
		return NewSeries(SeriesReminder, events).neighbours(tag), true
	}
	if tag.IsNudge() {
		return NewSeries(SeriesNudge, events).neighbours(tag), true
	}
	return Constraints{}, false
}

// SeriesKind selects one of the two bounded event series.
type SeriesKind int

const (
	SeriesReminder SeriesKind = iota
	SeriesNudge
)

var ordinals = [SeriesLen]string{"First", "Second", "Third", "Fourth", "Fifth"}

func (k SeriesKind) tags() [SeriesLen]Tag {
	if k == SeriesNudge {
		return NudgeTags
	}
	return ReminderTags
}

func (k SeriesKind) noun() string {
	if k == SeriesNudge {
		return "nudge email"
	}
	return "reminder"
}

// anchors are the fixed tags that bound the series in the precedence chain.
func (k SeriesKind) anchors() (after, before Tag) {
	if k == SeriesNudge {
		return TagGoLive, TagReturnBy
	}
	return TagReturnBy, TagExerciseEnd
}

// Series is a sparse ordered series: a fixed-size array of optional
// timestamps, of which zero or more slots may be populated.
type Series struct {
	kind  SeriesKind
	slots [SeriesLen]null.Time
}

// NewSeries collects the populated slots of the given kind out of events.
func NewSeries(kind SeriesKind, events EventSet) Series {
	s := Series{kind: kind}
	for i, tag := range kind.tags() {
		if ev, ok := events.Get(tag); ok {
			s.slots[i] = null.TimeFrom(ev.Timestamp)
		}
	}
	return s
}

// SeriesEntry is one populated slot after compaction.
type SeriesEntry struct {
	Tag       Tag
	Index     int    // fixed position within the series
	Ordinal   int    // 1-based position within the populated subset
	Label     string // "First reminder", "Second nudge email", ...
	Timestamp time.Time
}

// Populated returns the populated slots in series order, renumbered so
// that ordinal labels reflect the compacted subset.
func (s Series) Populated() []SeriesEntry {
	tags := s.kind.tags()
	entries := make([]SeriesEntry, 0, SeriesLen)
	for i, slot := range s.slots {
		if !slot.Valid {
			continue
		}
		ord := len(entries) + 1
		entries = append(entries, SeriesEntry{
			Tag:       tags[i],
			Index:     i,
			Ordinal:   ord,
			Label:     ordinals[ord-1] + " " + s.kind.noun(),
			Timestamp: slot.Time,
		})
	}
	return entries
}

// NextFree returns the first unpopulated slot scanning from the lowest
// index; higher unpopulated slots are not offered until lower ones fill.
func (s Series) NextFree() (Tag, bool) {
	for i, slot := range s.slots {
		if !slot.Valid {
			return s.kind.tags()[i], true
		}
	}
	return "", false
}

// label returns the compacted ordinal label for a populated slot, or ""
// when the slot is unpopulated (the "add" affordance has no label).
func (s Series) label(tag Tag) string {
	for _, entry := range s.Populated() {
		if entry.Tag == tag {
			return entry.Label
		}
	}
	return ""
}

// neighbours computes the ordering constraints of a series slot against
// its immediate predecessor and successor within the populated subset,
// falling back to the series anchors at either end.
func (s Series) neighbours(tag Tag) Constraints {
	idx := seriesIndex(s.kind.tags(), tag)
	if idx < 0 {
		return Constraints{}
	}

	afterAnchor, beforeAnchor := s.kind.anchors()
	after, before := afterAnchor, beforeAnchor

	for _, entry := range s.Populated() {
		if entry.Index < idx {
			after = entry.Tag // last populated slot preceding idx
		}
		if entry.Index > idx {
			before = entry.Tag // first populated slot following idx
			break
		}
	}
	return Constraints{After: []Tag{after}, Before: []Tag{before}}
}
