package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/gommon/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/turnin/core"
	"github.com/trezcool/turnin/core/account"
	"github.com/trezcool/turnin/core/check"
	emailsvc "github.com/trezcool/turnin/services/email"
	logsvc "github.com/trezcool/turnin/services/logger"
	"github.com/trezcool/turnin/storage/inmem"
	testutil "github.com/trezcool/turnin/tests"
)

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

type fixture struct {
	inv    string // invocation directory, holding proj1/
	src    string
	work   string
	stdout *bytes.Buffer
	logger *testutil.Logger
	runner *testutil.Runner
	mailer *emailsvc.ConsoleServiceMock
}

func testConfig() *core.Config {
	return &core.Config{
		Env:              "TEST",
		Build:            "test",
		DefaultExtension: "tar.Z",
		DefaultDomain:    "cs.ucsb.edu",
		GradeFile:        "GRADE",
		ExtractLog:       "extract_log",
		MakeLog:          "make_log",
		SanityFile:       "LOGFILE",
		TarCmd:           "tar",
		MakeCmd:          "make",
	}
}

func setup(t *testing.T, stdin string) (*commandLine, *fixture) {
	t.Helper()
	inv := t.TempDir()
	f := &fixture{
		inv:    inv,
		src:    filepath.Join(inv, "proj1"),
		work:   filepath.Join(inv, "work"),
		stdout: new(bytes.Buffer),
		logger: testutil.NewLogger(),
		runner: &testutil.Runner{},
		mailer: emailsvc.NewConsoleServiceMock(),
	}
	testutil.TouchFiles(t, f.src, "LOGFILE", "alice.tar.Z", "bob.tar.Z", "bob-1.tar.Z")

	cmd := &commandLine{
		conf:   testConfig(),
		logger: f.logger,
		stdin:  strings.NewReader(stdin),
		stdout: f.stdout,
		accounts: inmem.NewAccountDirectory(
			account.Account{Username: "alice", DisplayName: "Alice B Tester"},
			account.Account{Username: "bob", DisplayName: "Bob Smith"},
		),
		runner: f.runner,
		openMailer: func(context.Context, *core.Config, core.Logger, io.Writer) (core.EmailService, error) {
			return f.mailer, nil
		},
		getwd: func() (string, error) { return inv, nil },
	}
	return cmd, f
}

func runTests(t *testing.T, cmd *commandLine, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"turnin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cmd.run(args)
			switch {
			case err == nil:
				if tt.wantErr != nil || tt.wantErrStr != "" {
					t.Errorf("cli.run() expected an error")
				}
			case tt.wantErr != nil:
				if errors.Cause(err) != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
				}
			default:
				t.Errorf("cli.run() unexpected error = %v", err)
			}
			if usage, ok := tt.extra.(bool); ok && usage != core.IsArgumentError(err) {
				t.Errorf("cli.run() usage error = %v, want %v", core.IsArgumentError(err), usage)
			}
		})
	}
}

func Test_commandLine_run(t *testing.T) {
	cmd, f := setup(t, "")

	tests := []cliTest{
		{name: "no args", wantErr: errHelp},
		{name: "no SOURCE_DIR", args: []string{"-l"}, wantErrStr: "SOURCE_DIR is required", extra: true},
		{name: "several SOURCE_DIR", args: []string{"-l", "proj1", "proj2"}, wantErrStr: "unexpected arguments: proj2", extra: true},
		{name: "unknown flag", args: []string{"--nope", "proj1"}, wantErrStr: "flag provided but not defined: -nope", extra: true},
		{name: "missing SOURCE_DIR", args: []string{"-l", "nope"}, wantErrStr: filepath.Join(f.inv, "nope") + " does not exist", extra: false},
		{name: "bad extension", args: []string{"--extension", "x/tar.Z", "proj1"}, wantErrStr: "extension: must not contain a path separator"},
		{name: "bad bcc", args: []string{"--email", "ta", "--bcc", "a b@c", "proj1"}, wantErrStr: "bcc: must be a valid email address (got a b@c)"},
		{name: "unknown check", args: []string{"--test-function", "nope", "proj1"}, wantErr: check.ErrUnknownCheck},
		{name: "flag after SOURCE_DIR", args: []string{"proj1", "--list"}},
		{name: "flag after check args", args: []string{"--test-function", "sample", "proj1", "-f"}},
		{name: "list", args: []string{"-l", "proj1"}},
		{name: "nothing selected", args: []string{"proj1"}},
	}
	runTests(t, cmd, tests)

	assert.True(t, strings.HasSuffix(f.stdout.String(), testutil.Lines("alice", "bob-1")), "got %q", f.stdout.String())
	assert.Empty(t, f.runner.Commands)
	assert.False(t, f.mailer.Closed, "bad options must not open the mail service")
}

func Test_commandLine_interspersedFlags(t *testing.T) {
	cmd, f := setup(t, "") // no stdin: any question would be refused

	require.NoError(t, cmd.run([]string{"turnin", "-x", "--work-dir", "work", "proj1", "-f"}))
	assert.Equal(t, testutil.Lines("Unpacking: alice", "Unpacking: bob-1"), f.stdout.String())
	assert.DirExists(t, filepath.Join(f.work, "bob-1"))

	f.stdout.Reset()
	testutil.TouchFiles(t, filepath.Join(f.work, "alice"), "prog")
	require.NoError(t, cmd.run([]string{"turnin", "--test-function", "sample", "proj1", "--work-dir", "work", "-W", "--", "prog"}))
	assert.Equal(t, testutil.Lines("Testing alice", "Testing bob-1"), f.stdout.String())
	assert.Equal(t, "SCORE: 1\n", testutil.ReadFile(t, filepath.Join(f.work, "alice", "GRADE")))
	assert.Equal(t, "SCORE: 0\n", testutil.ReadFile(t, filepath.Join(f.work, "bob-1", "GRADE")))
}

func Test_reorderArgs(t *testing.T) {
	cmd, _ := setup(t, "")
	flags := cmd.newApp().Flags

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "flags first", args: []string{"-l", "proj1"}, want: []string{"-l", "--", "proj1"}},
		{name: "flags last", args: []string{"proj1", "-x", "-m", "-f"}, want: []string{"-x", "-m", "-f", "--", "proj1"}},
		{name: "string flag value", args: []string{"proj1", "--work-dir", "work", "-c"}, want: []string{"--work-dir", "work", "-c", "--", "proj1"}},
		{name: "inline value", args: []string{"proj1", "--target=all"}, want: []string{"--target=all", "--", "proj1"}},
		{name: "repeated slice flag", args: []string{"--bcc", "a", "proj1", "--bcc", "b"}, want: []string{"--bcc", "a", "--bcc", "b", "--", "proj1"}},
		{name: "check args", args: []string{"--test-function", "diff", "proj1", "exp", "out", "-W"}, want: []string{"--test-function", "diff", "-W", "--", "proj1", "exp", "out"}},
		{name: "dash args after --", args: []string{"proj1", "-f", "--", "-v", "--all"}, want: []string{"-f", "--", "proj1", "-v", "--all"}},
		{name: "no positional", args: []string{"-l"}, want: []string{"-l", "--"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reorderArgs(flags, tt.args))
		})
	}
}

func Test_commandLine_checksFile(t *testing.T) {
	cmd, f := setup(t, "")

	err := cmd.run([]string{"turnin", "--checks", filepath.Join(f.inv, "nope.yml"), "-l", "proj1"})
	require.Error(t, err)
	assert.Empty(t, f.stdout.String(), "nothing runs when the checks cannot be loaded")

	testutil.WriteFiles(t, f.inv, map[string]string{
		"checks.yml": "checks:\n  - name: hello\n    command: [\"echo\", \"hello\"]\n    expected: hello.out\n",
		"hello.out":  "echo hello\n",
	})
	cmd.conf.ChecksFile = filepath.Join(f.inv, "checks.yml")
	require.NoError(t, os.MkdirAll(filepath.Join(f.work, "alice"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(f.work, "bob-1"), 0755))

	require.NoError(t, cmd.run([]string{"turnin", "--work-dir", "work", "--test-function", "hello", "proj1"}))
	assert.Equal(t, testutil.Lines("Testing alice", "Testing bob-1"), f.stdout.String())
	require.Len(t, f.runner.Commands, 2)
	assert.Equal(t, "echo hello", f.runner.Commands[0].String())
	assert.Equal(t, "SCORE: 1\n", testutil.ReadFile(t, filepath.Join(f.work, "bob-1", "GRADE")))
}

func Test_commandLine_grade(t *testing.T) {
	cmd, f := setup(t, "")
	testutil.TouchFiles(t, filepath.Join(f.work, "alice"), "prog")

	args := []string{"turnin",
		"-f", "-x", "-m", "--work-dir", "work", "--target", "all",
		"--test-function", "sample", "--email", "ta", "--bcc", "prof", "-c",
		"proj1", "prog",
	}
	require.NoError(t, cmd.run(args))

	assert.Equal(t, testutil.Lines(
		"Unpacking: alice", "Unpacking: bob-1",
		"Making: alice", "Making: bob-1",
		"Testing alice", "Testing bob-1",
	), f.stdout.String())

	require.Len(t, f.runner.Commands, 4)
	tar := f.runner.Commands[1]
	assert.Equal(t, "tar", tar.Name)
	assert.Equal(t, []string{"-xvzf", filepath.Join(f.src, "bob-1.tar.Z"), "-C", filepath.Join(f.work, "bob-1")}, tar.Args)
	assert.Equal(t, filepath.Join(f.work, "bob-1", "extract_log"), tar.LogPath)
	mk := f.runner.Commands[2]
	assert.Equal(t, "make", mk.Name)
	assert.Equal(t, []string{"-C", filepath.Join(f.work, "alice"), "all"}, mk.Args)
	assert.FileExists(t, filepath.Join(f.work, "alice", "make_log"))

	assert.Equal(t, "SCORE: 1\n", testutil.ReadFile(t, filepath.Join(f.work, "alice", "GRADE")))
	assert.Equal(t, "SCORE: 0\n", testutil.ReadFile(t, filepath.Join(f.work, "bob-1", "GRADE")))

	require.Len(t, f.mailer.SentMessages, 2)
	assert.Equal(t, []string{"bob@cs.ucsb.edu", "prof@cs.ucsb.edu"}, f.mailer.SentMessages[1].Recipients())
	assert.Equal(t, "proj1 Grade", f.mailer.SentMessages[1].Subject)
	assert.True(t, f.mailer.Closed)

	assert.Equal(t, testutil.Lines(
		"First Name,Last Name,User Name,Grading",
		"Alice B,Tester,alice,SCORE: 1",
		"Bob,Smith,bob,SCORE: 0",
	), testutil.ReadFile(t, filepath.Join(f.work, "proj1.csv")))

	// purge keeps the csv, so the working root stays
	f.stdout.Reset()
	require.NoError(t, cmd.run([]string{"turnin", "-f", "--purge", "--work-dir", "work", "proj1"}))
	assert.Equal(t, testutil.Lines("Deleting: alice", "Deleting: bob-1"), f.stdout.String())
	assert.NoDirExists(t, filepath.Join(f.work, "alice"))
	assert.FileExists(t, filepath.Join(f.work, "proj1.csv"))
}

func Test_commandLine_prompts(t *testing.T) {
	tests := []cliTest{
		{name: "refuse", extra: "n\n", wantErrStr: "nothing to do"},
		{name: "quit", extra: "q\n", wantErr: core.ErrUserQuit},
		{name: "no answer", extra: "", wantErrStr: "nothing to do"},
		{name: "accept", extra: "yes\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, f := setup(t, tt.extra.(string))

			err := cmd.run([]string{"turnin", "-x", "--work-dir", "work", "proj1"})
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
			} else if tt.wantErrStr != "" {
				assert.EqualError(t, err, tt.wantErrStr)
			} else {
				assert.NoError(t, err)
				assert.DirExists(t, filepath.Join(f.work, "bob-1"))
			}
			assert.True(t, strings.HasPrefix(f.stdout.String(), "Are you sure you want to create "+f.work+"?: "))
		})
	}
}

func Test_commandLine_noWarn(t *testing.T) {
	for _, noWarn := range []bool{false, true} {
		cmd, f := setup(t, "")
		require.NoError(t, os.Remove(filepath.Join(f.src, "LOGFILE")))

		var logs bytes.Buffer
		std := logrus.New()
		std.SetOutput(&logs)
		std.SetFormatter(logsvc.NewConsoleFormatter(false, false))
		cmd.logger = logsvc.NewRollbarLogger(std, cmd.conf, "run-1")

		args := []string{"turnin", "-l", "proj1"}
		if noWarn {
			args = []string{"turnin", "-W", "-l", "proj1"}
		}
		require.NoError(t, cmd.run(args))

		want := "Warning: " + f.src + " does not appear to be valid. Reason: No LOGFILE\n"
		if noWarn {
			want = ""
		}
		assert.Equal(t, want, logs.String(), "no-warn=%v", noWarn)
	}
}

func Test_exitCode(t *testing.T) {
	c := color.New()
	c.Disable()

	tests := []struct {
		name    string
		err     error
		want    int
		wantOut string
	}{
		{name: "success", want: 0},
		{name: "help", err: errHelp, want: 2},
		{name: "usage", err: core.NewArgumentError("SOURCE_DIR is required"), want: 2, wantOut: "Usage error: SOURCE_DIR is required\n"},
		{name: "fatal", err: errors.New("work_dir does not exist. Extract first"), want: 1, wantOut: "Abort: work_dir does not exist. Extract first\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Equal(t, tt.want, exitCode(tt.err, &out, c))
			assert.Equal(t, tt.wantOut, out.String())
		})
	}
}

func Test_isFault(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "success"},
		{name: "help", err: errHelp},
		{name: "usage", err: core.NewArgumentError("SOURCE_DIR is required")},
		{name: "quit", err: core.ErrUserQuit},
		{name: "wrapped quit", err: errors.Wrap(core.ErrUserQuit, "extract")},
		{name: "fatal", err: errors.New("extract failed on bob"), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isFault(tt.err))
		})
	}
}
