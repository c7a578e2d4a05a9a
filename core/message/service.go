package message

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/surveyops/respops/core"
	"github.com/surveyops/respops/core/party"
)

type (
	// Repository fronts the secure-message service.
	Repository interface {
		SendMessage(ctx context.Context, msg SecureMessage) (SecureMessage, error)
		GetThread(ctx context.Context, threadID uuid.UUID) ([]SecureMessage, error)
		QueryThreads(ctx context.Context, filter ThreadFilter) ([]SecureMessage, error)
		CountUnread(ctx context.Context) (int, error)
		MarkRead(ctx context.Context, messageID uuid.UUID) error
	}

	// RespondentGetter is the slice of the party service this service
	// needs to address notification emails.
	RespondentGetter interface {
		GetRespondent(ctx context.Context, id string) (party.Respondent, error)
	}

	Service struct {
		repo        Repository
		respondents RespondentGetter
		mailSvc     core.EmailService
		clock       core.Clock
		conf        *core.Config
	}
)

func NewService(repo Repository, respondents RespondentGetter, mailSvc core.EmailService, clock core.Clock, conf *core.Config) *Service {
	return &Service{
		repo:        repo,
		respondents: respondents,
		mailSvc:     mailSvc,
		clock:       clock,
		conf:        conf,
	}
}

// Send validates and sends a secure message, then emails the respondent a
// "you have a new message" notification. A notification failure never
// fails the send; the message is already stored downstream.
func (svc *Service) Send(ctx context.Context, nm NewMessage, sentBy string) (SecureMessage, error) {
	if err := nm.Validate(); err != nil {
		return SecureMessage{}, err
	}

	msg := SecureMessage{
		ID:         uuid.New(),
		Subject:    nm.Subject,
		Body:       nm.Body,
		FromStaff:  true,
		SentBy:     sentBy,
		PartyID:    nm.PartyID,
		BusinessID: nm.BusinessID,
		SurveyID:   nm.SurveyID,
		CaseID:     nm.CaseID,
		SentAt:     svc.clock.Now(),
	}
	if nm.ThreadID != "" {
		threadID, err := uuid.Parse(nm.ThreadID)
		if err != nil {
			return SecureMessage{}, core.NewValidationError(err, core.FieldError{Field: "thread_id", Error: "invalid thread id"})
		}
		msg.ThreadID = threadID
	} else {
		msg.ThreadID = msg.ID
	}

	sent, err := svc.repo.SendMessage(ctx, msg)
	if err != nil {
		return SecureMessage{}, pkgerrors.Wrap(err, "sending secure message")
	}
	svc.notify(ctx, sent)
	return sent, nil
}

func (svc *Service) notify(ctx context.Context, msg SecureMessage) {
	resp, err := svc.respondents.GetRespondent(ctx, msg.PartyID)
	if err != nil || resp.EmailAddress == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: resp.Name(), Address: resp.EmailAddress}},
		Subject: "You have a new secure message",
		BodyStr: fmt.Sprintf("Sign in to your surveys account to read it: %s/secure-message", svc.conf.FrontendBaseURL),
	})
}

func (svc *Service) Thread(ctx context.Context, threadID uuid.UUID) ([]SecureMessage, error) {
	return svc.repo.GetThread(ctx, threadID)
}

func (svc *Service) QueryThreads(ctx context.Context, filter ThreadFilter) ([]SecureMessage, error) {
	return svc.repo.QueryThreads(ctx, filter)
}

func (svc *Service) CountUnread(ctx context.Context) (int, error) {
	return svc.repo.CountUnread(ctx)
}

func (svc *Service) MarkRead(ctx context.Context, messageID uuid.UUID) error {
	return svc.repo.MarkRead(ctx, messageID)
}
