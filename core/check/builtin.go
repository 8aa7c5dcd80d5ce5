package check

import (
	"context"
	"os"

	"github.com/pkg/errors"
)

// Sample scores 1 when the file the build should produce exists, 0 otherwise.
// args: [TARGET] (default some_proj)
func Sample(_ context.Context, env Env, args []string) error {
	target := "some_proj"
	if len(args) > 0 {
		target = args[0]
	}
	score := 0
	if _, err := os.Stat(target); err == nil {
		score = 1
	}
	return writeGrade(env, score)
}

// Diff compares an expected file with a file of the submission.
// args: EXPECTED ACTUAL; EXPECTED is relative to the invocation directory, ACTUAL to the submission.
func Diff(_ context.Context, env Env, args []string) error {
	if len(args) < 2 {
		return errors.New("diff: usage: EXPECTED ACTUAL")
	}
	expected, err := os.ReadFile(resolve(env.InvocationDir, args[0]))
	if err != nil {
		return errors.Wrap(err, "diff: reading expected output")
	}
	actual, err := os.ReadFile(args[1])
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrap(err, "diff: reading actual output")
		}
		actual = nil // graded as an empty output
	}
	return gradeDiff(env, expected, actual, args[1], "diff_log")
}
