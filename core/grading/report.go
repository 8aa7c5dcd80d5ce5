package grading

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/turnin/core"
	"github.com/trezcool/turnin/core/submission"
)

var csvHeader = []string{"First Name", "Last Name", "User Name", "Grading"}

// CSVPath returns where WriteCSV writes the report: WORK_DIR/<SOURCE_DIR base>.csv
func (svc *Service) CSVPath() string {
	return filepath.Join(svc.opts.WorkDir, filepath.Base(svc.opts.SourceDir)+".csv")
}

// WriteCSV writes the names, username and grade file content of every submission.
// A username missing from the account directory aborts the report.
func (svc *Service) WriteCSV(subs []submission.Submission) error {
	path := svc.CSVPath()
	if _, err := os.Stat(path); err == nil {
		ok, err := svc.Gate.Confirm("Are you sure you want to clobber the pre-existing csv file?")
		if err != nil || !ok {
			return err
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, sub := range subs {
		acc, err := svc.Accounts.Lookup(sub.User)
		if err != nil {
			return errors.Wrapf(err, "looking up %s", sub.User)
		}
		var grading string
		if gradePath := svc.gradePath(svc.submissionDir(sub)); core.IsFile(gradePath) {
			if grading, err = core.ReadTrimmed(gradePath); err != nil {
				return errors.Wrapf(err, "reading grade of %s", sub)
			}
		}
		if err := w.Write([]string{acc.FirstName(), acc.LastName(), sub.User, grading}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, buf.Bytes(), 0644), "writing %s", path)
}
