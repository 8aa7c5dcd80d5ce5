package core

import (
	"context"
	"fmt"
	"strings"
)

type (
	// Command is one external tool invocation. Combined output goes to LogPath.
	Command struct {
		Name    string
		Args    []string
		Dir     string // empty: current directory
		LogPath string
	}

	// ToolRunner runs external tools and blocks until they exit.
	ToolRunner interface {
		// Run returns an *ExitError when the tool exits with a non-zero status.
		Run(ctx context.Context, cmd Command) error
	}

	ExitError struct {
		Cmd  string
		Code int
	}
)

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

func (err *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", err.Cmd, err.Code)
}
