package grading

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/turnin/core"
	"github.com/trezcool/turnin/core/submission"
)

// Make builds every extracted submission. Failed builds are warnings.
func (svc *Service) Make(ctx context.Context, subs []submission.Submission) error {
	if err := svc.requireWorkDir("Extract first"); err != nil {
		return err
	}

	makefile, err := svc.makefile()
	if err != nil {
		return err
	}

	for _, sub := range subs {
		dir := filepath.Join(svc.submissionDir(sub), svc.opts.MakeDir)
		if !core.IsDir(dir) {
			svc.printf("Cannot build: %s does not exist\n", dir)
			continue
		}
		svc.printf("Making: %s\n", sub)
		logPath := filepath.Join(svc.submissionDir(sub), svc.Conf.MakeLog)
		if err := svc.Builder.Build(ctx, dir, makefile, svc.opts.Target, logPath); err != nil {
			svc.Logger.Warn(fmt.Sprintf("make failed for %s", sub), err)
		}
	}
	return nil
}

// makefile returns the absolute makefile override, or "" once the user agreed to use
// the students' own makefiles.
func (svc *Service) makefile() (string, error) {
	if svc.opts.Makefile == "" {
		ok, err := svc.Gate.Confirm("Are you sure you want to use the students' Makefiles?")
		if err != nil {
			return "", err
		}
		if !ok {
			return "", errors.New("cannot run make")
		}
		return "", nil
	}

	makefile := svc.opts.Makefile
	if !filepath.IsAbs(makefile) {
		makefile = filepath.Join(svc.opts.InvocationDir, makefile)
	}
	if !core.IsFile(makefile) {
		return "", errors.Errorf("makefile (%s) does not exist", makefile)
	}
	return makefile, nil
}
