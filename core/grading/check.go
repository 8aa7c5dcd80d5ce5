package grading

import (
	"context"
	"fmt"

	"github.com/trezcool/turnin/core"
	"github.com/trezcool/turnin/core/check"
	"github.com/trezcool/turnin/core/submission"
)

// RunCheck runs the check named by Options.Check from inside every submission directory.
// Errors of the check itself are warnings; an unknown check fails before any submission is touched.
func (svc *Service) RunCheck(ctx context.Context, subs []submission.Submission) error {
	if err := svc.requireWorkDir("Extract first"); err != nil {
		return err
	}
	fn, err := svc.Checks.Lookup(svc.opts.Check)
	if err != nil {
		return err
	}

	for _, sub := range subs {
		svc.printf("Testing %s\n", sub)
		env := check.Env{
			Submission:    sub,
			Dir:           svc.submissionDir(sub),
			InvocationDir: svc.opts.InvocationDir,
			GradeFile:     svc.Conf.GradeFile,
			Runner:        svc.Runner,
			Logger:        svc.Logger,
		}
		err := core.WithWorkingDir(env.Dir, func() error {
			return fn(ctx, env, svc.opts.CheckArgs)
		})
		if err != nil {
			svc.Logger.Warn(fmt.Sprintf("%s failed for %s", svc.opts.Check, sub), err)
		}
	}
	return nil
}
