package core

import (
	"bytes"
	"fmt"
	"net/mail"
	texttmpl "text/template"
)

type (
	// EmailMessage is a plain-text notification email.
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateStr  string
		TemplateData interface{}
		TextContent  string
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// Render resolves the message body: either the plain BodyStr or the
// executed TemplateStr with TemplateData.
func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	if m.TemplateStr == "" {
		return nil
	}
	tmpl, err := texttmpl.New("email").Parse(m.TemplateStr)
	if err != nil {
		return fmt.Errorf("parsing email template: %v", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, m.TemplateData); err != nil {
		return fmt.Errorf("rendering email template: %v", err)
	}
	m.TextContent = buf.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool {
	return (len(m.To) + len(m.Cc) + len(m.Bcc)) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.TextContent != ""
}
