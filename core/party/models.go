package party

import "errors"

var (
	// errors
	ErrBusinessNotFound   = errors.New("business not found")
	ErrRespondentNotFound = errors.New("respondent not found")
)

// RespondentStatus is the account status of a respondent.
type RespondentStatus string

const (
	RespondentCreated   RespondentStatus = "CREATED"
	RespondentActive    RespondentStatus = "ACTIVE"
	RespondentSuspended RespondentStatus = "SUSPENDED"
)

// EnrolmentStatus is the status of one survey enrolment.
type EnrolmentStatus string

const (
	EnrolmentPending  EnrolmentStatus = "PENDING"
	EnrolmentEnabled  EnrolmentStatus = "ENABLED"
	EnrolmentDisabled EnrolmentStatus = "DISABLED"
)

type (
	// Enrolment represents a single survey enrolment for a respondent.
	Enrolment struct {
		SurveyID string          `json:"surveyId"`
		Status   EnrolmentStatus `json:"enrolmentStatus"`
	}

	// Association links a respondent to a business they report for.
	Association struct {
		BusinessID    string      `json:"id"`
		Name          string      `json:"name"`
		SampleUnitRef string      `json:"sampleUnitRef"`
		Enrolments    []Enrolment `json:"enrolments"`
	}

	// Respondent is a single reporting-unit contact.
	Respondent struct {
		ID           string           `json:"id"`
		FirstName    string           `json:"firstName"`
		LastName     string           `json:"lastName"`
		EmailAddress string           `json:"emailAddress"`
		Telephone    string           `json:"telephone"`
		Status       RespondentStatus `json:"status"`
		Associations []Association    `json:"associations"`
	}

	// Business is a reporting unit.
	Business struct {
		ID            string `json:"id"`
		SampleUnitRef string `json:"sampleUnitRef"`
		Name          string `json:"name"`
		TradingAs     string `json:"trading_as"`
	}
)

func (r Respondent) Name() string {
	if r.FirstName == "" {
		return r.LastName
	}
	return r.FirstName + " " + r.LastName
}

// Suspended reports whether the respondent account is locked out.
func (r Respondent) Suspended() bool { return r.Status == RespondentSuspended }
