package check

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
)

func writeGrade(env Env, score int) error {
	name := env.GradeFile
	if name == "" {
		name = "GRADE"
	}
	return errors.Wrap(os.WriteFile(name, []byte(fmt.Sprintf("SCORE: %d\n", score)), 0644), "writing grade")
}

// unifiedDiff returns the diff between expected and actual, empty when they match.
func unifiedDiff(expected, actual []byte, actualName string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(expected)),
		B:        difflib.SplitLines(string(actual)),
		FromFile: "expected",
		ToFile:   actualName,
		Context:  3,
	})
}

// gradeDiff writes the diff to logName and a 1/0 score to the grade file.
func gradeDiff(env Env, expected, actual []byte, actualName, logName string) error {
	diff, err := unifiedDiff(expected, actual, actualName)
	if err != nil {
		return errors.Wrap(err, "diffing output")
	}
	if err := os.WriteFile(logName, []byte(diff), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", logName)
	}
	score := 0
	if diff == "" {
		score = 1
	}
	return writeGrade(env, score)
}

// resolve makes a relative path absolute against base.
func resolve(base, path string) string {
	if filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}
