package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/labstack/gommon/color"
	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/trezcool/turnin/core"
	logsvc "github.com/trezcool/turnin/services/logger"
)

func main() {
	colored := term.IsTerminal(int(os.Stderr.Fd()))
	abort := color.New()
	if !colored {
		abort.Disable()
	}

	conf, err := core.NewConfig()
	if err != nil {
		os.Exit(exitCode(err, os.Stderr, abort))
	}

	std := logrus.New()
	std.SetOutput(os.Stderr)
	std.SetFormatter(logsvc.NewConsoleFormatter(colored, conf.Debug))
	logger := logsvc.NewRollbarLogger(std, conf, uuid.New().String())

	err = newCommandLine(conf, logger).run(os.Args)
	if isFault(err) {
		rollbar.Error(err)
	}
	logger.Wait()
	os.Exit(exitCode(err, os.Stderr, abort))
}

// isFault reports whether err is worth reporting: usage errors and a user quitting are not.
func isFault(err error) bool {
	return err != nil && err != errHelp && !core.IsArgumentError(err) && errors.Cause(err) != core.ErrUserQuit
}

// exitCode reports err to w and returns the process exit code:
// 0 on success, 2 on usage errors, 1 otherwise.
func exitCode(err error, w io.Writer, c *color.Color) int {
	switch {
	case err == nil:
		return 0
	case err == errHelp:
		return 2
	case core.IsArgumentError(err):
		fmt.Fprintf(w, "%s %s\n", c.Red("Usage error:"), err)
		return 2
	default:
		fmt.Fprintf(w, "%s %s\n", c.Red("Abort:"), err)
		return 1
	}
}
