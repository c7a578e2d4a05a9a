package collex

import (
	"errors"
	"fmt"
	"time"

	"github.com/surveyops/respops/core"
)

var errDateInPast = errors.New("selected date can not be in the past")

// ValidateProposed checks a proposed event timestamp against the past-date
// rule: every tag except the reference period pair and employment must be
// scheduled strictly in the future relative to submission time. Violations
// come back as a core.ValidationError keyed by the tag, never silently
// corrected.
func ValidateProposed(tag Tag, proposed, now time.Time) error {
	if tag.PastExempt() {
		return nil
	}
	if !proposed.After(now) {
		return core.NewValidationError(errDateInPast, core.FieldError{
			Field: string(tag),
			Error: errDateInPast.Error(),
		})
	}
	return nil
}

// ValidateOrdering checks a proposed event timestamp against the tag's
// ordering neighbours: it must fall strictly after every populated "after"
// neighbour and strictly before every populated "before" neighbour.
// Unpopulated neighbours constrain nothing. Violations come back as a
// core.ValidationError keyed by the tag, naming the violated neighbour.
func ValidateOrdering(tag Tag, proposed time.Time, events EventSet) error {
	cons, ok := ConstraintTags(tag, events)
	if !ok {
		return nil
	}
	for _, after := range cons.After {
		if ev, present := events.Get(after); present && !proposed.After(ev.Timestamp) {
			return orderingError(tag, "after", after, events)
		}
	}
	for _, before := range cons.Before {
		if ev, present := events.Get(before); present && !proposed.Before(ev.Timestamp) {
			return orderingError(tag, "before", before, events)
		}
	}
	return nil
}

func orderingError(tag Tag, direction string, neighbour Tag, events EventSet) error {
	label, _ := Label(neighbour, events)
	err := fmt.Errorf("selected date must be %s %s", direction, label)
	return core.NewValidationError(err, core.FieldError{
		Field: string(tag),
		Error: err.Error(),
	})
}
