package collex

import (
	"fmt"
	"strings"
	"time"
)

// Row is the display metadata for one event table row.
type Row struct {
	Tag           Tag    `json:"tag"`
	Label         string `json:"label"`
	Text          string `json:"text"`   // "Monday 02 March 2026 09:00", "" when unset
	Status        string `json:"status"` // "upcoming", "passed", "" when unset
	Hyperlink     string `json:"hyperlink,omitempty"`
	HyperlinkText string `json:"hyperlink_text,omitempty"`
	HyperlinkID   string `json:"hyperlink_id,omitempty"`
}

// EditPolicy captures who is asking and the exercise lock state.
type EditPolicy struct {
	CanEdit bool
	Locked  bool
}

// editableWhileLocked flags the tags that may still be changed on a locked
// exercise; the bool value is the "must currently be in the future" check.
// period_id and reporting_period are deliberately absent: they are never
// editable while locked and never subject to the future check.
var editableWhileLocked = map[Tag]bool{
	TagRefPeriodStart: false,
	TagRefPeriodEnd:   false,
	TagEmployment:     false,
}

func init() {
	// every series slot is editable while locked, provided the existing
	// event is still in the future
	for _, tag := range ReminderTags {
		editableWhileLocked[tag] = true
	}
	for _, tag := range NudgeTags {
		editableWhileLocked[tag] = true
	}
}

// EventRow builds the display row for tag out of the exercise's events.
func EventRow(tag Tag, events EventSet, policy EditPolicy, now time.Time) Row {
	label, _ := Label(tag, events)
	row := Row{Tag: tag, Label: label}

	ev, present := events.Get(tag)
	if present {
		f := Format(ev, now)
		row.Text = strings.TrimSpace(fmt.Sprintf("%s %s %s", f.Day, f.Date, f.Time))
		if f.InFuture {
			row.Status = "upcoming"
		} else {
			row.Status = "passed"
		}
	}

	if !editAllowed(tag, ev, present, policy, now) {
		return row
	}

	thing := label
	if thing == "" {
		// unlabelled "next" series slot: the affordance names the series
		if tag.IsNudge() {
			thing = SeriesNudge.noun()
		} else if tag.IsReminder() {
			thing = SeriesReminder.noun()
		} else {
			thing = string(tag)
		}
	}
	if present {
		row.HyperlinkText = "Edit " + thing
	} else {
		row.HyperlinkText = "Add " + thing
	}
	row.Hyperlink = "events/" + string(tag)
	row.HyperlinkID = "event-" + string(tag)
	return row
}

func editAllowed(tag Tag, ev Event, present bool, policy EditPolicy, now time.Time) bool {
	if !policy.CanEdit {
		return false
	}
	if tag == TagPeriodID || tag == TagReportingPeriod {
		return !policy.Locked
	}
	if !policy.Locked {
		return true
	}
	futureCheck, editable := editableWhileLocked[tag]
	if !editable {
		return false
	}
	if futureCheck && present && !ev.Timestamp.After(now) {
		return false
	}
	return true
}

// RestrictionText renders the human-readable constraint sentences for tag:
// "Must be {before|after} {neighbour label} {neighbour day date time}".
// An unset constraining neighbour renders with an empty date/time portion
// rather than dropping the sentence. Unknown tags yield no sentences.
func RestrictionText(tag Tag, events EventSet, now time.Time) []string {
	cons, ok := ConstraintTags(tag, events)
	if !ok {
		return nil
	}

	sentences := make([]string, 0, len(cons.After)+len(cons.Before))
	for _, after := range cons.After {
		sentences = append(sentences, restriction("after", after, events, now))
	}
	for _, before := range cons.Before {
		sentences = append(sentences, restriction("before", before, events, now))
	}
	return sentences
}

func restriction(direction string, neighbour Tag, events EventSet, now time.Time) string {
	label, _ := Label(neighbour, events)

	var when string
	if ev, ok := events.Get(neighbour); ok {
		f := Format(ev, now)
		when = fmt.Sprintf("%s %s %s", f.Day, f.Date, f.Time)
	}
	return strings.TrimSpace(fmt.Sprintf("Must be %s %s %s", direction, label, when))
}
