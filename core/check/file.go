package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/turnin/core"
)

type (
	// checksFile is the YAML document declaring command checks:
	//
	//	checks:
	//	  - name: run_tests
	//	    command: ["./some_proj", "--all"]
	//	    expected: expected/run_tests.out
	checksFile struct {
		Checks []commandSpec `yaml:"checks"`
	}

	commandSpec struct {
		Name     string   `yaml:"name"`
		Command  []string `yaml:"command"`
		Expected string   `yaml:"expected"` // relative to the checks file
	}
)

// LoadFile registers every command check declared in the YAML file at path.
func (r Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading checks file")
	}
	var f checksFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return errors.Wrapf(err, "parsing %s", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	base := filepath.Dir(abs)
	for i, decl := range f.Checks {
		if decl.Name == "" || len(decl.Command) == 0 || decl.Expected == "" {
			return errors.Errorf("%s: check #%d needs a name, a command and an expected file", path, i+1)
		}
		if err := r.Register(decl.Name, commandCheck(decl.Name, decl.Command, resolve(base, decl.Expected))); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

// commandCheck runs argv (plus the leftover arguments) in the submission directory and
// grades its combined output against the expected file.
func commandCheck(name string, argv []string, expected string) Func {
	return func(ctx context.Context, env Env, args []string) error {
		want, err := os.ReadFile(expected)
		if err != nil {
			return errors.Wrapf(err, "%s: reading expected output", name)
		}

		logName := name + "_log"
		cmd := core.Command{
			Name:    argv[0],
			Args:    append(append([]string{}, argv[1:]...), args...),
			Dir:     env.Dir,
			LogPath: filepath.Join(env.Dir, logName),
		}
		if err := env.Runner.Run(ctx, cmd); err != nil {
			if _, ok := err.(*core.ExitError); !ok {
				return errors.Wrapf(err, "%s: running %s", name, cmd)
			}
			env.Logger.Debug(fmt.Sprintf("%s: %s", env.Submission, err))
		}

		got, err := os.ReadFile(cmd.LogPath)
		if err != nil {
			return errors.Wrapf(err, "%s: reading output", name)
		}
		return gradeDiff(env, want, got, logName, name+"_diff")
	}
}
