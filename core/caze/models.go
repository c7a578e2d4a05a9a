package caze

import "github.com/google/uuid"

// Status is a case-group response status. Business surveys use the first
// vocabulary, social surveys the outcome codes below it.
type Status string

const (
	// business surveys
	StatusNotStarted       Status = "NOTSTARTED"
	StatusInProgress       Status = "INPROGRESS"
	StatusComplete         Status = "COMPLETE"
	StatusCompletedByPhone Status = "COMPLETEDBYPHONE"
	StatusNoLongerRequired Status = "NOLONGERREQUIRED"

	// social surveys
	StatusRefusal            Status = "REFUSAL"
	StatusOtherNonResponse   Status = "OTHERNONRESPONSE"
	StatusUnknownEligibility Status = "UNKNOWNELIGIBILITY"
	StatusNotEligible        Status = "NOTELIGIBLE"
)

// Label returns the display name for a status. The default branch is the
// intentional fallback for values this portal does not know about.
func (s Status) Label() string {
	switch s {
	case StatusNotStarted:
		return "Not started"
	case StatusInProgress:
		return "In progress"
	case StatusComplete:
		return "Completed"
	case StatusCompletedByPhone:
		return "Completed by phone"
	case StatusNoLongerRequired:
		return "No longer required"
	case StatusRefusal:
		return "Refusal"
	case StatusOtherNonResponse:
		return "Other non-response"
	case StatusUnknownEligibility:
		return "Unknown eligibility"
	case StatusNotEligible:
		return "Not eligible"
	default:
		return string(s)
	}
}

// Category is an outcome grouping heading, e.g. "400 Refusal".
type Category struct {
	Code  int    `json:"code"`
	Label string `json:"label"`
}

// Category maps a resulting status to its outcome category. ok is false
// for statuses that are not administratively exposed; the default branch
// is the intentional fallback, not an accident.
func (s Status) Category() (Category, bool) {
	switch s {
	case StatusCompletedByPhone:
		return Category{Code: 200, Label: "Completed"}, true
	case StatusNoLongerRequired:
		return Category{Code: 300, Label: "No longer required"}, true
	case StatusRefusal:
		return Category{Code: 400, Label: "Refusal"}, true
	case StatusOtherNonResponse:
		return Category{Code: 500, Label: "Other non-response"}, true
	case StatusUnknownEligibility:
		return Category{Code: 600, Label: "Unknown eligibility"}, true
	case StatusNotEligible:
		return Category{Code: 700, Label: "Not eligible"}, true
	default:
		return Category{}, false
	}
}

// CaseGroup is the aggregate response status tracked per reporting unit
// per collection exercise.
type CaseGroup struct {
	ID                   uuid.UUID `json:"id"`
	PartyID              string    `json:"partyId"`
	CollectionExerciseID uuid.UUID `json:"collectionExerciseId"`
	SampleUnitRef        string    `json:"sampleUnitRef"`
	Status               Status    `json:"caseGroupStatus"`
}
