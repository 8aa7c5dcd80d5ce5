package grading

import (
	"context"
	"fmt"
	"net/mail"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/turnin/core"
	"github.com/trezcool/turnin/core/submission"
)

// EmailGrades mails every student the content of their grade file followed by the
// generic grade file of the working root. Students without a grade file are skipped.
func (svc *Service) EmailGrades(ctx context.Context, subs []submission.Submission) (err error) {
	domain := svc.Conf.DefaultDomain

	// normalize email accounts
	from := core.NormalizeEmail(svc.opts.From, domain)
	if err := svc.Validator.Var("email", from, "required,email"); err != nil {
		return err
	}
	bcc := make([]mail.Address, 0, len(svc.opts.Bcc))
	for _, b := range svc.opts.Bcc {
		addr := core.NormalizeEmail(b, domain)
		if err := svc.Validator.Var("bcc", addr, "email"); err != nil {
			return err
		}
		bcc = append(bcc, mail.Address{Address: addr})
	}

	mailer, err := svc.OpenMailer(ctx)
	if err != nil {
		return errors.Wrap(err, "opening mail service")
	}
	defer func() {
		if cerr := mailer.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "closing mail service")
		}
	}()

	// generic message
	var generic string
	genericPath := svc.gradePath(svc.opts.WorkDir)
	if !core.IsFile(genericPath) {
		ok, err := svc.Gate.Confirm(fmt.Sprintf("There is no generic %s file, are you sure you want to send emails?", svc.Conf.GradeFile))
		if err != nil || !ok {
			return err
		}
	} else if generic, err = core.ReadTrimmed(genericPath); err != nil {
		return errors.Wrap(err, "reading generic grade")
	}

	subject := fmt.Sprintf("%s Grade", filepath.Base(svc.opts.SourceDir))
	for _, sub := range subs {
		gradePath := svc.gradePath(svc.submissionDir(sub))
		if !core.IsFile(gradePath) {
			svc.Logger.Warn(fmt.Sprintf("No %s file for %s", svc.Conf.GradeFile, sub))
			continue
		}
		grade, err := core.ReadTrimmed(gradePath)
		if err != nil {
			return errors.Wrapf(err, "reading grade of %s", sub)
		}

		to := core.NormalizeEmail(sub.User, domain)
		msg := &core.EmailMessage{
			From:         mail.Address{Address: from},
			To:           []mail.Address{{Address: to}},
			Bcc:          bcc,
			Subject:      subject,
			TemplateName: "grade",
			TemplateData: core.GradeData{Grade: grade, Generic: generic},
		}
		if err := mailer.SendMessages(ctx, msg); err != nil {
			return errors.Wrapf(err, "emailing %s", to)
		}
		svc.Logger.Debug(fmt.Sprintf("Emailed: %s", sub))
	}
	return nil
}
