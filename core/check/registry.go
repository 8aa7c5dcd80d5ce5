// Package check holds the named grading routines that can be run on every submission.
package check

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/turnin/core"
	"github.com/trezcool/turnin/core/submission"
)

var ErrUnknownCheck = errors.New("unknown check")

type (
	// Env describes the submission a check runs on.
	// Checks run with Dir as the process working directory.
	Env struct {
		Submission    submission.Submission
		Dir           string
		InvocationDir string // directory turnin was started from
		GradeFile     string
		Runner        core.ToolRunner
		Logger        core.Logger
	}

	// Func grades one submission. args are the leftover command line arguments.
	Func func(ctx context.Context, env Env, args []string) error

	// Registry is the closed set of checks selectable with --test-function.
	Registry map[string]Func
)

// Builtins returns a registry holding the checks shipped with turnin.
func Builtins() Registry {
	return Registry{
		"sample": Sample,
		"diff":   Diff,
	}
}

// Register adds fn under name. Names cannot be registered twice.
func (r Registry) Register(name string, fn Func) error {
	if name == "" || fn == nil {
		return errors.New("check name and function are required")
	}
	if _, ok := r[name]; ok {
		return errors.Errorf("check %q already registered", name)
	}
	r[name] = fn
	return nil
}

// Lookup returns the check registered under name.
func (r Registry) Lookup(name string) (Func, error) {
	fn, ok := r[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCheck, "no check named %s (known: %s)", name, strings.Join(r.Names(), ", "))
	}
	return fn, nil
}

// Names returns the registered names, sorted.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
