package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/trezcool/turnin/core"
)

// Logger records messages by level.
type Logger struct {
	mu       sync.Mutex
	Debugs   []string
	Infos    []string
	Warnings []string
	Errors   []string
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger { return &Logger{} }

func (l *Logger) record(dst *[]string, msg string) {
	l.mu.Lock()
	*dst = append(*dst, msg)
	l.mu.Unlock()
}

func (l *Logger) Debug(msg string, _ ...interface{}) { l.record(&l.Debugs, msg) }
func (l *Logger) Info(msg string, _ ...interface{})  { l.record(&l.Infos, msg) }
func (l *Logger) Warn(msg string, _ ...interface{})  { l.record(&l.Warnings, msg) }
func (l *Logger) Error(msg string, _ ...interface{}) { l.record(&l.Errors, msg) }
func (l *Logger) Fatal(msg string, _ ...interface{}) { l.record(&l.Errors, msg) }

// Runner records every command instead of running it.
// Fn, when set, decides the outcome; otherwise the command succeeds.
// The log file is written like a real tool would.
type Runner struct {
	Commands []core.Command
	Fn       func(cmd core.Command) error
}

var _ core.ToolRunner = (*Runner)(nil)

func (r *Runner) Run(_ context.Context, cmd core.Command) error {
	r.Commands = append(r.Commands, cmd)
	if cmd.LogPath != "" {
		if err := os.WriteFile(cmd.LogPath, []byte(cmd.String()+"\n"), 0644); err != nil {
			return err
		}
	}
	if r.Fn != nil {
		return r.Fn(cmd)
	}
	return nil
}

// WriteFiles creates every {relative path: content} file under dir, with parents.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("WriteFiles() failed: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFiles() failed: %v", err)
		}
	}
}

// TouchFiles creates empty files under dir.
func TouchFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	files := make(map[string]string, len(names))
	for _, n := range names {
		files[n] = ""
	}
	WriteFiles(t, dir, files)
}

// ReadFile returns the content of a file, failing the test if it cannot be read.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	return string(data)
}

// Lines is a convenience to build expected multi-line outputs.
func Lines(lines ...string) string {
	var s string
	for _, l := range lines {
		s += fmt.Sprintln(l)
	}
	return s
}
