package grading

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/turnin/core"
	"github.com/trezcool/turnin/core/submission"
)

// Extract unpacks every submission archive into its own directory of the working root.
// Unlike Make, a failed extraction aborts the whole stage.
func (svc *Service) Extract(ctx context.Context, subs []submission.Submission) error {
	workDir := svc.opts.WorkDir
	if !core.IsDir(workDir) {
		ok, err := svc.Gate.Confirm(fmt.Sprintf("Are you sure you want to create %s?", workDir))
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("nothing to do")
		}
		if err := os.MkdirAll(workDir, 0755); err != nil {
			return errors.Wrapf(err, "creating %s", workDir)
		}
	}

	for _, sub := range subs {
		svc.printf("Unpacking: %s\n", sub)
		dest := svc.submissionDir(sub)
		archive := filepath.Join(svc.opts.SourceDir, sub.ID()+"."+svc.opts.Extension)

		if core.IsDir(dest) {
			ok, err := svc.Gate.Confirm(fmt.Sprintf("Are you sure you want to overwrite %s?", dest))
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		} else if err := os.Mkdir(dest, 0755); err != nil {
			return errors.Wrapf(err, "creating %s", dest)
		}

		logPath := filepath.Join(dest, svc.Conf.ExtractLog)
		if err := svc.Extractor.Extract(ctx, archive, dest, logPath); err != nil {
			return errors.Wrapf(err, "extract failed on %s", sub)
		}
	}
	return nil
}
