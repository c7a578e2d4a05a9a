package message

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/surveyops/respops/core"
)

var (
	// errors
	ErrNotFound = errors.New("message not found")
)

// SecureMessage is one message in a conversation between the back office
// and a respondent.
type SecureMessage struct {
	ID         uuid.UUID `json:"id"`
	ThreadID   uuid.UUID `json:"thread_id"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	FromStaff  bool      `json:"from_staff"`
	SentBy     string    `json:"sent_by"`
	PartyID    string    `json:"party_id"`
	BusinessID string    `json:"business_id"`
	SurveyID   string    `json:"survey_id"`
	CaseID     string    `json:"case_id,omitempty"`
	SentAt     time.Time `json:"sent_at"` // UTC
	Unread     bool      `json:"unread"`
}

// NewMessage contains information needed to send a secure message.
type NewMessage struct {
	Subject    string `json:"subject" validate:"required,notblank,max=96"`
	Body       string `json:"body" validate:"required,notblank,max=10000"`
	PartyID    string `json:"party_id" validate:"required"`
	BusinessID string `json:"business_id" validate:"required"`
	SurveyID   string `json:"survey_id" validate:"required"`
	CaseID     string `json:"case_id"`
	ThreadID   string `json:"thread_id"` // empty starts a new conversation
}

func (nm *NewMessage) Validate() error {
	nm.Subject = core.CleanString(nm.Subject)
	nm.Body = core.CleanString(nm.Body)
	return core.Validate.Struct(nm)
}

// ThreadFilter narrows conversation listings.
type ThreadFilter struct {
	PartyID    string `query:"party_id"`
	SurveyID   string `query:"survey_id"`
	BusinessID string `query:"business_id"`
	UnreadOnly bool   `query:"unread_only"`
}
