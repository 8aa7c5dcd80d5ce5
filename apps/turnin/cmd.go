package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/trezcool/turnin/core"
	"github.com/trezcool/turnin/core/account"
	"github.com/trezcool/turnin/core/check"
	"github.com/trezcool/turnin/core/grading"
	"github.com/trezcool/turnin/core/prompt"
	emailsvc "github.com/trezcool/turnin/services/email"
	toolsvc "github.com/trezcool/turnin/services/tools"
	"github.com/trezcool/turnin/storage/passwd"
)

const usage = `batch grading helper for turnin submissions

Resolves the latest archive of every student in SOURCE_DIR, then runs the
selected stages in order: list, extract, make, test-function, email, csv, purge.
Flags can be given anywhere; CHECK_ARGS are passed to --test-function, put the
ones starting with a dash after "--".`

var errHelp = errors.New("help provided")

type (
	openMailerFunc func(ctx context.Context, conf *core.Config, logger core.Logger, out io.Writer) (core.EmailService, error)

	// warningToggler is implemented by loggers that can mute warnings.
	warningToggler interface {
		EnableWarnings(enabled bool)
	}
)

type commandLine struct {
	conf       *core.Config
	logger     core.Logger
	stdin      io.Reader
	stdout     io.Writer
	accounts   account.Directory
	runner     core.ToolRunner
	openMailer openMailerFunc
	getwd      func() (string, error)
}

func newCommandLine(conf *core.Config, logger core.Logger) *commandLine {
	return &commandLine{
		conf:       conf,
		logger:     logger,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		accounts:   passwd.NewAccountDirectory(),
		runner:     toolsvc.NewRunner(),
		openMailer: emailsvc.Open,
		getwd:      os.Getwd,
	}
}

func (cmd *commandLine) newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "turnin"
	app.Usage = usage
	app.ArgsUsage = "SOURCE_DIR [CHECK_ARGS...]"
	app.Version = cmd.conf.Build
	app.Writer = cmd.stdout
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "list, l", Usage: "print the latest submission of every user"},
		cli.BoolFlag{Name: "extract, x", Usage: "unpack every submission into the working directory"},
		cli.BoolFlag{Name: "make, m", Usage: "run make in every extracted submission"},
		cli.StringFlag{Name: "test-function", Usage: "run the check `NAME` inside every submission"},
		cli.StringFlag{Name: "email", Usage: "email every student their grade, from `FROM`"},
		cli.StringSliceFlag{Name: "bcc", Usage: "blind copy every grade email to `EMAIL`"},
		cli.BoolFlag{Name: "csv, c", Usage: "write the grades to WORK_DIR/<SOURCE_DIR>.csv"},
		cli.BoolFlag{Name: "purge", Usage: "delete the extracted submissions"},
		cli.StringFlag{Name: "work-dir", Value: ".", Usage: "working `DIR` holding one directory per submission"},
		cli.StringFlag{Name: "make-dir", Value: ".", Usage: "`DIR`, relative to a submission, where make runs"},
		cli.StringFlag{Name: "makefile", Usage: "use `FILE` instead of the students' Makefiles"},
		cli.StringFlag{Name: "target", Usage: "make `TARGET`"},
		cli.StringFlag{Name: "extension", Value: cmd.conf.DefaultExtension, Usage: "submission archive `EXT`"},
		cli.StringFlag{Name: "checks", Value: cmd.conf.ChecksFile, Usage: "load extra checks from the YAML `FILE`"},
		cli.BoolFlag{Name: "no-warn, W", Usage: "do not print warnings"},
		cli.BoolFlag{Name: "force, f", Usage: "answer yes to every question"},
	}
	app.OnUsageError = func(c *cli.Context, err error, _ bool) error {
		return cmd.usageError(c, err.Error())
	}
	app.Action = cmd.grade
	return app
}

func (cmd *commandLine) printUsage() {
	fmt.Fprintln(cmd.stdout, "Usage:")
	fmt.Fprintln(cmd.stdout, "  turnin [options] SOURCE_DIR [CHECK_ARGS...] - grade the submissions of SOURCE_DIR")
	fmt.Fprintln(cmd.stdout, "  turnin --help - list the options")
}

func (cmd *commandLine) usageError(c *cli.Context, msg string) error {
	_ = cli.ShowAppHelp(c)
	return core.NewArgumentError(msg)
}

func (cmd *commandLine) run(args []string) error {
	if len(args) < 2 {
		cmd.printUsage()
		return errHelp
	}
	app := cmd.newApp()
	return app.Run(append([]string{args[0]}, reorderArgs(app.Flags, args[1:])...))
}

// reorderArgs moves flags (and the values of non-boolean flags) ahead of the positional
// arguments, which urfave/cli would otherwise stop parsing flags at. Everything after
// a literal "--" is kept positional.
func reorderArgs(flags []cli.Flag, args []string) []string {
	takesValue := make(map[string]bool)
	for _, f := range flags {
		_, isBool := f.(cli.BoolFlag)
		for _, name := range strings.Split(f.GetName(), ",") {
			takesValue[strings.TrimSpace(name)] = !isBool
		}
	}

	var flagArgs, positional []string
loop:
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			break loop
		case len(arg) > 1 && arg[0] == '-':
			flagArgs = append(flagArgs, arg)
			name := strings.TrimLeft(arg, "-")
			if !strings.Contains(name, "=") && takesValue[name] && i+1 < len(args) {
				i++
				flagArgs = append(flagArgs, args[i])
			}
		default:
			positional = append(positional, arg)
		}
	}
	return append(append(flagArgs, "--"), positional...)
}

func (cmd *commandLine) grade(c *cli.Context) error {
	name := c.String("test-function")
	switch {
	case c.NArg() == 0:
		return cmd.usageError(c, "SOURCE_DIR is required")
	case c.NArg() > 1 && name == "":
		return cmd.usageError(c, "unexpected arguments: "+strings.Join(c.Args().Tail(), " "))
	}

	if l, ok := cmd.logger.(warningToggler); ok {
		l.EnableWarnings(!c.Bool("no-warn"))
	}

	// unknown checks are rejected before any stage runs
	checks := check.Builtins()
	if path := c.String("checks"); path != "" {
		if err := checks.LoadFile(path); err != nil {
			return err
		}
	}
	if name != "" {
		if _, err := checks.Lookup(name); err != nil {
			return err
		}
	}

	wd, err := cmd.getwd()
	if err != nil {
		return errors.Wrap(err, "getting working directory")
	}
	opts := grading.Options{
		SourceDir:     c.Args().First(),
		WorkDir:       c.String("work-dir"),
		InvocationDir: wd,
		Extension:     c.String("extension"),
		MakeDir:       c.String("make-dir"),
		Makefile:      c.String("makefile"),
		Target:        c.String("target"),
		From:          c.String("email"),
		Bcc:           c.StringSlice("bcc"),
		Check:         name,
		CheckArgs:     c.Args().Tail(),
	}
	stages := grading.Stages{
		List:    c.Bool("list"),
		Extract: c.Bool("extract"),
		Make:    c.Bool("make"),
		Email:   opts.From != "",
		CSV:     c.Bool("csv"),
		Purge:   c.Bool("purge"),
	}

	svc := grading.NewService(opts, grading.Deps{
		Conf:      cmd.conf,
		Logger:    cmd.logger,
		Gate:      prompt.NewGate(c.Bool("force"), cmd.stdin, cmd.stdout),
		Validator: core.NewValidator(),
		Extractor: toolsvc.NewArchiver(cmd.runner, cmd.conf),
		Builder:   toolsvc.NewBuilder(cmd.runner, cmd.conf),
		Runner:    cmd.runner,
		Checks:    checks,
		Accounts:  cmd.accounts,
		OpenMailer: func(ctx context.Context) (core.EmailService, error) {
			return cmd.openMailer(ctx, cmd.conf, cmd.logger, cmd.stdout)
		},
		Out: cmd.stdout,
	})
	return svc.Run(context.Background(), stages)
}
