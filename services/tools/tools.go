package toolsvc

import (
	"context"

	"github.com/trezcool/turnin/core"
)

// Archiver unpacks submission archives with tar.
type Archiver struct {
	runner core.ToolRunner
	tarCmd string
}

func NewArchiver(runner core.ToolRunner, conf *core.Config) *Archiver {
	return &Archiver{runner: runner, tarCmd: conf.TarCmd}
}

// Extract runs `tar -xvzf ARCHIVE -C DEST`, logging to logPath.
func (a *Archiver) Extract(ctx context.Context, archive, dest, logPath string) error {
	return a.runner.Run(ctx, core.Command{
		Name:    a.tarCmd,
		Args:    []string{"-xvzf", archive, "-C", dest},
		LogPath: logPath,
	})
}

// Builder builds submissions with make.
type Builder struct {
	runner  core.ToolRunner
	makeCmd string
}

func NewBuilder(runner core.ToolRunner, conf *core.Config) *Builder {
	return &Builder{runner: runner, makeCmd: conf.MakeCmd}
}

// Build runs `make -C DIR [-f MAKEFILE] [TARGET]`, logging to logPath.
func (b *Builder) Build(ctx context.Context, dir, makefile, target, logPath string) error {
	args := []string{"-C", dir}
	if makefile != "" {
		args = append(args, "-f", makefile)
	}
	if target != "" {
		args = append(args, target)
	}
	return b.runner.Run(ctx, core.Command{Name: b.makeCmd, Args: args, LogPath: logPath})
}
