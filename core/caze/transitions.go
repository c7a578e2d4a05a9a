package caze

import "sort"

// Transition is one selectable status change: firing Event moves the case
// group to Result.
type Transition struct {
	Event  string `json:"event"`
	Result Status `json:"result"`
}

// CategoryGroup is the transitions of one outcome category, ready for
// display under its heading.
type CategoryGroup struct {
	Category    Category     `json:"category"`
	Transitions []Transition `json:"transitions"`
}

// ExposedTransitions filters a case's full transition map (supplied by the
// case service as {event name -> resulting status}) down to the
// administratively exposed subset, grouped by outcome category and sorted
// by category code then alphabetically by event name. Transitions whose
// resulting status has no category are internal-only and dropped.
func ExposedTransitions(available map[string]Status) []CategoryGroup {
	byCode := make(map[int]*CategoryGroup)
	for event, result := range available {
		cat, ok := result.Category()
		if !ok {
			continue
		}
		group, ok := byCode[cat.Code]
		if !ok {
			group = &CategoryGroup{Category: cat}
			byCode[cat.Code] = group
		}
		group.Transitions = append(group.Transitions, Transition{Event: event, Result: result})
	}

	groups := make([]CategoryGroup, 0, len(byCode))
	for _, group := range byCode {
		sort.Slice(group.Transitions, func(i, j int) bool {
			return group.Transitions[i].Event < group.Transitions[j].Event
		})
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Category.Code < groups[j].Category.Code
	})
	return groups
}

// exposedEvent reports whether event is offered by ExposedTransitions for
// the given availability map.
func exposedEvent(available map[string]Status, event string) bool {
	result, ok := available[event]
	if !ok {
		return false
	}
	_, ok = result.Category()
	return ok
}
