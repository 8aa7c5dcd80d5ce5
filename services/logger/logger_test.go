package logsvc

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/turnin/core"
	testutil "github.com/trezcool/turnin/tests"
)

func newTestLogger(verbose bool) (*RollbarLogger, *bytes.Buffer) {
	var out bytes.Buffer
	std := logrus.New()
	std.SetOutput(&out)
	std.SetFormatter(NewConsoleFormatter(false, verbose))
	conf := &core.Config{Env: "TEST", Debug: verbose}
	return NewRollbarLogger(std, conf, "run-1"), &out
}

func TestRollbarLogger(t *testing.T) {
	logger, out := newTestLogger(false)

	logger.Info("Unpacking: alice")
	logger.Warn("No GRADE file for bob")
	logger.Warn("make failed for carol", errors.New("make: exit status 2"))
	logger.Error("boom", map[string]interface{}{"user": "dave"})
	logger.Debug("hidden")

	assert.Equal(t, testutil.Lines(
		"Unpacking: alice",
		"Warning: No GRADE file for bob",
		"Warning: make failed for carol: make: exit status 2",
		"Error: boom",
	), out.String())
}

func TestRollbarLogger_EnableWarnings(t *testing.T) {
	logger, out := newTestLogger(false)
	logger.EnableWarnings(false)

	logger.Warn("suppressed")
	logger.Error("still shown")

	assert.Equal(t, "Error: still shown\n", out.String())
}

func TestRollbarLogger_verbose(t *testing.T) {
	logger, out := newTestLogger(true)

	logger.Debug("resolved", map[string]interface{}{"count": 2})

	assert.Equal(t, "Debug: resolved count=2 run=run-1\n", out.String())
}
