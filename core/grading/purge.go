package grading

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/turnin/core"
	"github.com/trezcool/turnin/core/submission"
)

// Purge deletes the submission directories, then the working root if nothing else is left in it.
func (svc *Service) Purge(subs []submission.Submission) error {
	workDir := svc.opts.WorkDir
	if err := svc.requireWorkDir("Nothing to do."); err != nil {
		return err
	}
	ok, err := svc.Gate.Confirm("Are you sure you want to delete user directories?")
	if err != nil || !ok {
		return err
	}

	for _, sub := range subs {
		dir := svc.submissionDir(sub)
		if !core.IsDir(dir) {
			svc.Logger.Warn(fmt.Sprintf("%s does not exist", dir))
			continue
		}
		svc.printf("Deleting: %s\n", sub)
		if err := os.RemoveAll(dir); err != nil {
			return errors.Wrapf(err, "deleting %s", dir)
		}
	}

	entries, err := os.ReadDir(workDir)
	if err != nil {
		return errors.Wrapf(err, "listing %s", workDir)
	}
	if len(entries) > 0 {
		return nil
	}
	ok, err = svc.Gate.Confirm(fmt.Sprintf("%s is empty. Do you want to delete?", workDir))
	if err != nil || !ok {
		return err
	}
	return errors.Wrapf(os.Remove(workDir), "deleting %s", workDir)
}
