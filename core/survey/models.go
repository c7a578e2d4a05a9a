package survey

import "errors"

var (
	// errors
	ErrNotFound = errors.New("survey not found")
)

// Survey is a survey definition owned by the survey service.
type Survey struct {
	ID         string `json:"id"`
	ShortName  string `json:"shortName"`
	LongName   string `json:"longName"`
	SurveyRef  string `json:"surveyRef"`
	LegalBasis string `json:"legalBasis"`
	SurveyMode string `json:"surveyMode"` // SEFT, EQ, TELEPHONE
}

// Social reports whether the survey uses the social-survey outcome codes.
func (s Survey) Social() bool { return s.SurveyMode == "TELEPHONE" }
