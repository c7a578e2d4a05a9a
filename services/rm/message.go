package rmsvc

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/surveyops/respops/core"
	"github.com/surveyops/respops/core/message"
)

type messageDTO struct {
	ID         uuid.UUID `json:"msg_id"`
	ThreadID   uuid.UUID `json:"thread_id"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	FromStaff  bool      `json:"from_internal"`
	SentBy     string    `json:"sent_by"`
	PartyID    string    `json:"party_id"`
	BusinessID string    `json:"business_id"`
	SurveyID   string    `json:"survey_id"`
	CaseID     string    `json:"case_id,omitempty"`
	SentAt     time.Time `json:"sent_date"`
	Unread     bool      `json:"unread"`
}

// MessageService talks to the secure-message service.
type MessageService struct {
	client *client
}

var _ message.Repository = (*MessageService)(nil)

func NewMessageService(conf *core.Config) *MessageService {
	return &MessageService{client: newClient(conf.RM.SecureMessageURL, conf)}
}

func (svc *MessageService) SendMessage(ctx context.Context, msg message.SecureMessage) (message.SecureMessage, error) {
	var dto messageDTO
	if err := svc.client.post(ctx, "/messages", toDTO(msg), &dto); err != nil {
		return message.SecureMessage{}, errors.Wrap(err, "sending secure message")
	}
	return dto.toMessage(), nil
}

func (svc *MessageService) GetThread(ctx context.Context, threadID uuid.UUID) ([]message.SecureMessage, error) {
	var dtos []messageDTO
	if err := svc.client.get(ctx, "/threads/"+threadID.String(), nil, &dtos); err != nil {
		if isNotFound(err) {
			return nil, message.ErrNotFound
		}
		return nil, errors.Wrap(err, "getting message thread")
	}
	msgs := make([]message.SecureMessage, 0, len(dtos))
	for _, dto := range dtos {
		msgs = append(msgs, dto.toMessage())
	}
	return msgs, nil
}

func (svc *MessageService) QueryThreads(ctx context.Context, filter message.ThreadFilter) ([]message.SecureMessage, error) {
	q := url.Values{}
	if filter.PartyID != "" {
		q.Set("party_id", filter.PartyID)
	}
	if filter.SurveyID != "" {
		q.Set("survey_id", filter.SurveyID)
	}
	if filter.BusinessID != "" {
		q.Set("business_id", filter.BusinessID)
	}
	if filter.UnreadOnly {
		q.Set("unread_only", strconv.FormatBool(filter.UnreadOnly))
	}
	var dtos []messageDTO
	if err := svc.client.get(ctx, "/threads", q, &dtos); err != nil {
		return nil, errors.Wrap(err, "listing message threads")
	}
	msgs := make([]message.SecureMessage, 0, len(dtos))
	for _, dto := range dtos {
		msgs = append(msgs, dto.toMessage())
	}
	return msgs, nil
}

func (svc *MessageService) CountUnread(ctx context.Context) (int, error) {
	var out struct {
		Total int `json:"total"`
	}
	if err := svc.client.get(ctx, "/messages/count", url.Values{"unread_conversations": {"true"}}, &out); err != nil {
		return 0, errors.Wrap(err, "counting unread messages")
	}
	return out.Total, nil
}

func (svc *MessageService) MarkRead(ctx context.Context, messageID uuid.UUID) error {
	in := struct {
		Action string `json:"action"`
		Label  string `json:"label"`
	}{Action: "remove", Label: "UNREAD"}
	err := svc.client.put(ctx, "/messages/modify/"+messageID.String(), in, nil)
	return errors.Wrap(err, "marking message read")
}

func toDTO(msg message.SecureMessage) messageDTO {
	return messageDTO{
		ID:         msg.ID,
		ThreadID:   msg.ThreadID,
		Subject:    msg.Subject,
		Body:       msg.Body,
		FromStaff:  msg.FromStaff,
		SentBy:     msg.SentBy,
		PartyID:    msg.PartyID,
		BusinessID: msg.BusinessID,
		SurveyID:   msg.SurveyID,
		CaseID:     msg.CaseID,
		SentAt:     msg.SentAt,
		Unread:     msg.Unread,
	}
}

func (dto messageDTO) toMessage() message.SecureMessage {
	return message.SecureMessage{
		ID:         dto.ID,
		ThreadID:   dto.ThreadID,
		Subject:    dto.Subject,
		Body:       dto.Body,
		FromStaff:  dto.FromStaff,
		SentBy:     dto.SentBy,
		PartyID:    dto.PartyID,
		BusinessID: dto.BusinessID,
		SurveyID:   dto.SurveyID,
		CaseID:     dto.CaseID,
		SentAt:     dto.SentAt,
		Unread:     dto.Unread,
	}
}
