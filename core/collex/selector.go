package collex

import "time"

// NearestFutureEvent selects the next key date: the event with the
// smallest strictly-positive delta from now, skipping the reference
// period and employment tags since they are not key dates.
// Input order is preserved on exact ties (first encountered wins);
// all-past or empty input yields ok=false, never an error.
func NearestFutureEvent(events []Event, now time.Time) (Event, bool) {
	var nearest Event
	var found bool
	for _, ev := range events {
		if nonKeyDateTags[ev.Tag] {
			continue
		}
		if !ev.Timestamp.After(now) {
			continue
		}
		if !found || ev.Timestamp.Before(nearest.Timestamp) {
			nearest = ev
			found = true
		}
	}
	return nearest, found
}

// CurrentExercise picks which of a survey's collection exercises a
// dashboard should show:
//
//  1. the most recently started exercise whose start is in the past and
//     whose state is READY_FOR_LIVE, LIVE or ENDED — past exercises in
//     those states are assumed correctly configured;
//  2. failing that, the soonest upcoming exercise regardless of state —
//     early-stage setup does not yet carry a trustworthy state;
//  3. failing both (no scheduled starts at all, or empty input), none.
//
// Exercises without a scheduledStartDateTime never qualify. On identical
// start times the first encountered in input order wins.
func CurrentExercise(exercises []CollectionExercise, now time.Time) (CollectionExercise, bool) {
	var current CollectionExercise
	var found bool

	// nearest past start among live-ish exercises
	for _, ex := range exercises {
		if !ex.ScheduledStart.Valid || !ex.State.liveish() {
			continue
		}
		start := ex.ScheduledStart.Time
		if start.After(now) {
			continue
		}
		if !found || start.After(current.ScheduledStart.Time) {
			current = ex
			found = true
		}
	}
	if found {
		return current, true
	}

	// nearest future start, any state
	for _, ex := range exercises {
		if !ex.ScheduledStart.Valid {
			continue
		}
		start := ex.ScheduledStart.Time
		if !start.After(now) {
			continue
		}
		if !found || start.Before(current.ScheduledStart.Time) {
			current = ex
			found = true
		}
	}
	return current, found
}
