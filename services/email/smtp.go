package emailsvc

import (
	"context"
	"net"
	"net/smtp"

	"github.com/pkg/errors"

	"github.com/trezcool/turnin/core"
)

// smtpService sends every message over a single connection to a mail relay.
type smtpService struct {
	client *smtp.Client
}

var _ core.EmailService = (*smtpService)(nil)

// NewSMTPService connects to the relay at addr (host:port).
func NewSMTPService(ctx context.Context, addr string) (core.EmailService, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid relay address %q", addr)
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", addr)
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "greeting %s", addr)
	}
	return &smtpService{client: client}, nil
}

func (svc *smtpService) SendMessages(ctx context.Context, messages ...*core.EmailMessage) error {
	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := msg.Render(); err != nil {
			return errors.Wrap(err, "rendering email")
		}
		if !msg.HasRecipients() || !msg.HasContent() {
			continue
		}
		if err := svc.send(msg); err != nil {
			return err
		}
	}
	return nil
}

func (svc *smtpService) send(msg *core.EmailMessage) error {
	if err := svc.client.Mail(msg.From.Address); err != nil {
		return errors.Wrap(err, "MAIL FROM")
	}
	for _, rcpt := range msg.Recipients() {
		if err := svc.client.Rcpt(rcpt); err != nil {
			return errors.Wrapf(err, "RCPT TO %s", rcpt)
		}
	}
	w, err := svc.client.Data()
	if err != nil {
		return errors.Wrap(err, "DATA")
	}
	if _, err := w.Write(msg.Bytes()); err != nil {
		w.Close()
		return errors.Wrap(err, "writing message")
	}
	return errors.Wrap(w.Close(), "ending message")
}

// Close ends the session with the relay.
func (svc *smtpService) Close() error {
	if err := svc.client.Quit(); err != nil {
		svc.client.Close()
		return errors.Wrap(err, "QUIT")
	}
	return nil
}
