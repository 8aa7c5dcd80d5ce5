// Package grading drives the grading stages over the resolved submissions of a turnin directory.
package grading

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/turnin/core"
	"github.com/trezcool/turnin/core/account"
	"github.com/trezcool/turnin/core/check"
	"github.com/trezcool/turnin/core/submission"
)

type (
	// Options are the per-run settings, threaded through every stage.
	Options struct {
		SourceDir     string   `flag:"SOURCE_DIR" validate:"required"`
		WorkDir       string   `flag:"work-dir" validate:"required"`
		InvocationDir string   `flag:"-"`
		Extension     string   `flag:"extension" validate:"required,extension"`
		MakeDir       string   `flag:"make-dir"`
		Makefile      string   `flag:"makefile"`
		Target        string   `flag:"target"`
		From          string   `flag:"email"`
		Bcc           []string `flag:"bcc"`
		Check         string   `flag:"test-function"`
		CheckArgs     []string `flag:"-"`
	}

	// Stages selects what a Run does. The check stage runs when Options.Check is set.
	Stages struct {
		List    bool
		Extract bool
		Make    bool
		Email   bool
		CSV     bool
		Purge   bool
	}

	Confirmer interface {
		Confirm(question string) (bool, error)
	}

	Extractor interface {
		Extract(ctx context.Context, archive, dest, logPath string) error
	}

	Builder interface {
		Build(ctx context.Context, dir, makefile, target, logPath string) error
	}

	// MailerFunc opens the email service used for one notification stage.
	MailerFunc func(ctx context.Context) (core.EmailService, error)

	Deps struct {
		Conf       *core.Config
		Logger     core.Logger
		Gate       Confirmer
		Validator  *core.Validator
		Extractor  Extractor
		Builder    Builder
		Runner     core.ToolRunner
		Checks     check.Registry
		Accounts   account.Directory
		OpenMailer MailerFunc
		Out        io.Writer // progress output
	}

	Service struct {
		opts Options
		Deps
	}
)

func NewService(opts Options, deps Deps) *Service {
	if opts.InvocationDir != "" {
		if !filepath.IsAbs(opts.SourceDir) {
			opts.SourceDir = filepath.Join(opts.InvocationDir, opts.SourceDir)
		}
		if !filepath.IsAbs(opts.WorkDir) {
			opts.WorkDir = filepath.Join(opts.InvocationDir, opts.WorkDir)
		}
	}
	opts.SourceDir = filepath.Clean(opts.SourceDir)
	opts.WorkDir = filepath.Clean(opts.WorkDir)
	if opts.MakeDir == "" {
		opts.MakeDir = "."
	}
	return &Service{opts: opts, Deps: deps}
}

// Options returns the options in use, with paths made absolute.
func (svc *Service) Options() Options { return svc.opts }

// Run resolves the submissions once and runs the selected stages in order:
// list, extract, make, check, email, csv, purge.
func (svc *Service) Run(ctx context.Context, stages Stages) error {
	if err := svc.Validator.Struct(svc.opts); err != nil {
		return err
	}
	if !core.IsDir(svc.opts.SourceDir) {
		return errors.Errorf("%s does not exist", svc.opts.SourceDir)
	}
	if !core.IsFile(filepath.Join(svc.opts.SourceDir, svc.Conf.SanityFile)) {
		svc.Logger.Warn(fmt.Sprintf("%s does not appear to be valid. Reason: No %s", svc.opts.SourceDir, svc.Conf.SanityFile))
	}

	subs, err := submission.Resolve(svc.opts.SourceDir, svc.opts.Extension, svc.Logger)
	if err != nil {
		return err
	}
	svc.Logger.Debug("submissions resolved", map[string]interface{}{"count": len(subs)})

	if stages.List {
		svc.List(subs)
	}
	if stages.Extract {
		if err := svc.Extract(ctx, subs); err != nil {
			return err
		}
	}
	if stages.Make {
		if err := svc.Make(ctx, subs); err != nil {
			return err
		}
	}
	if svc.opts.Check != "" {
		if err := svc.RunCheck(ctx, subs); err != nil {
			return err
		}
	}
	if stages.Email {
		if err := svc.EmailGrades(ctx, subs); err != nil {
			return err
		}
	}
	if stages.CSV {
		if err := svc.WriteCSV(subs); err != nil {
			return err
		}
	}
	if stages.Purge {
		if err := svc.Purge(subs); err != nil {
			return err
		}
	}
	return nil
}

// List prints one submission identifier per line.
func (svc *Service) List(subs []submission.Submission) {
	for _, sub := range subs {
		svc.printf("%s\n", sub)
	}
}

func (svc *Service) printf(format string, args ...interface{}) {
	if svc.Out != nil {
		_, _ = fmt.Fprintf(svc.Out, format, args...)
	}
}

func (svc *Service) submissionDir(sub submission.Submission) string {
	return filepath.Join(svc.opts.WorkDir, sub.ID())
}

func (svc *Service) gradePath(dir string) string {
	return filepath.Join(dir, svc.Conf.GradeFile)
}

// requireWorkDir fails when the working root is missing; hint tells what to do about it.
func (svc *Service) requireWorkDir(hint string) error {
	if !core.IsDir(svc.opts.WorkDir) {
		return errors.Errorf("work_dir does not exist. %s", hint)
	}
	return nil
}
