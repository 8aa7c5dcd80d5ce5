// Package emailsvc provides the transports used to mail grades.
package emailsvc

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/turnin/core"
)

// Open returns the email service selected by conf.Mail.Backend, connected and ready to send.
func Open(ctx context.Context, conf *core.Config, logger core.Logger, out io.Writer) (core.EmailService, error) {
	switch conf.Mail.Backend {
	case "", "smtp":
		return NewSMTPService(ctx, conf.Mail.SMTPAddr)
	case "sendgrid":
		if conf.Mail.SendgridAPIKey == "" {
			return nil, errors.New("sendgrid backend requires TURNIN_SENDGRIDAPIKEY")
		}
		return NewSendgridService(conf.Mail.SendgridAPIKey, logger), nil
	case "console":
		return NewConsoleService(out), nil
	default:
		return nil, errors.Errorf("unknown mail backend %q", conf.Mail.Backend)
	}
}
