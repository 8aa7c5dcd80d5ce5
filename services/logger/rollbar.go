package logsvc

import (
	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"github.com/sirupsen/logrus"

	"github.com/trezcool/turnin/core"
)

type RollbarLogger struct {
	std      *logrus.Entry
	warnings bool
}

var _ core.Logger = (*RollbarLogger)(nil)

// NewRollbarLogger logs through std and reports to rollbar when a token is configured.
// runID tags every line and rollbar item of one run.
func NewRollbarLogger(std *logrus.Logger, conf *core.Config, runID string) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetCustom(map[string]interface{}{"run": runID})
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.Debug)

	if conf.Debug {
		std.SetLevel(logrus.DebugLevel)
	}
	return &RollbarLogger{
		std:      std.WithField("run", runID),
		warnings: true,
	}
}

// EnableWarnings turns warning output on or off. Warnings are still reported to rollbar.
func (l *RollbarLogger) EnableWarnings(enabled bool) {
	l.warnings = enabled
}

// Wait blocks until queued rollbar items are sent.
func (l *RollbarLogger) Wait() {
	rollbar.Wait()
}

// expected fmt: msg, error | map[string]interface{}
func (l *RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	return append(newArgs, args...)
}

func (l *RollbarLogger) entry(args []interface{}) *logrus.Entry {
	e := l.std
	for _, arg := range args {
		switch a := arg.(type) {
		case error:
			e = e.WithError(a)
		case map[string]interface{}:
			e = e.WithFields(a)
		}
	}
	return e
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.entry(args).Debug(msg)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.entry(args).Info(msg)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	if l.warnings {
		l.entry(args).Warn(msg)
	}
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.entry(args).Error(msg)
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	rollbar.Wait()
	l.entry(args).Fatal(msg)
}
