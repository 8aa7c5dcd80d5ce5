package core

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

var (
	templates map[string]*texttmpl.Template
	tmplInit  sync.Once
	tmplErr   error

	// text templates by name
	emailTemplates = map[string]string{
		"grade": "{{.Grade}}\n\n{{.Generic}}",
	}
)

type (
	EmailMessage struct {
		From    mail.Address
		To      []mail.Address
		Bcc     []mail.Address
		Subject string

		// templated contents
		TemplateName string
		TemplateData interface{}
		TextContent  string
	}

	// GradeData feeds the "grade" email template.
	GradeData struct {
		Grade   string
		Generic string
	}

	// EmailService is any service that can send emails over one connection.
	EmailService interface {
		// SendMessages sends messages in order and stops at the first failure.
		SendMessages(ctx context.Context, messages ...*EmailMessage) error
		Close() error
	}
)

func (m *EmailMessage) Render() error {
	if m.TemplateName == "" {
		return nil
	}

	tmplInit.Do(parseTemplates) // only parse once
	if tmplErr != nil {
		return tmplErr
	}
	tmpl, ok := templates[m.TemplateName]
	if !ok {
		return errors.Errorf("no email template named %q", m.TemplateName)
	}

	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, m.TemplateData); err != nil {
		return errors.Wrapf(err, "rendering %s template", m.TemplateName)
	}
	m.TextContent = buff.String()
	return nil
}

// Recipients returns every envelope recipient: To then Bcc.
func (m *EmailMessage) Recipients() []string {
	rcpts := make([]string, 0, len(m.To)+len(m.Bcc))
	for _, list := range [][]mail.Address{m.To, m.Bcc} {
		for _, a := range list {
			rcpts = append(rcpts, a.Address)
		}
	}
	return rcpts
}

// Bytes returns the plain-text message as handed to the relay.
// Bcc recipients are never written in the headers.
func (m *EmailMessage) Bytes() []byte {
	body := new(strings.Builder)
	_, _ = fmt.Fprintf(body, "To: %s\n", JoinAddresses(m.To))
	_, _ = fmt.Fprintf(body, "Subject: %s\n\n%s", m.Subject, m.TextContent)
	return []byte(body.String())
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.TextContent != "" }

// JoinAddresses formats addrs for a header. Bare addresses are written as is.
func JoinAddresses(addrs []mail.Address) string {
	toJoin := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a.Name == "" {
			toJoin = append(toJoin, a.Address)
		} else {
			toJoin = append(toJoin, a.String())
		}
	}
	return strings.Join(toJoin, ", ")
}

// NormalizeEmail appends @domain to addr unless it already has a domain.
func NormalizeEmail(addr, domain string) string {
	addr = CleanString(addr)
	if strings.Contains(addr, "@") {
		return addr
	}
	return addr + "@" + domain
}

func parseTemplates() {
	templates = make(map[string]*texttmpl.Template, len(emailTemplates))
	for name, text := range emailTemplates {
		tmpl, err := texttmpl.New(name).Option("missingkey=error").Parse(text)
		if err != nil {
			tmplErr = errors.Wrapf(err, "parsing %s template", name)
			return
		}
		templates[name] = tmpl
	}
}
