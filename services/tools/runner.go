// Package toolsvc runs the external tools used on submissions (tar, make, graders).
package toolsvc

import (
	"context"
	"os"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/trezcool/turnin/core"
)

type execRunner struct{}

var _ core.ToolRunner = (*execRunner)(nil)

// NewRunner returns a ToolRunner backed by os/exec. Arguments are passed as is, no shell involved.
func NewRunner() core.ToolRunner {
	return &execRunner{}
}

func (execRunner) Run(ctx context.Context, cmd core.Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir

	if cmd.LogPath != "" {
		log, err := os.Create(cmd.LogPath) // overwritten on rerun
		if err != nil {
			return errors.Wrap(err, "creating log file")
		}
		defer log.Close()
		c.Stdout = log
		c.Stderr = log
	}

	if err := c.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return &core.ExitError{Cmd: cmd.Name, Code: exitErr.ExitCode()}
		}
		return errors.Wrapf(err, "running %s", cmd.Name)
	}
	return nil
}
