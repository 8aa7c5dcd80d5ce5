package core

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// WithWorkingDir runs fn with dir as the process working directory.
// The previous working directory is restored on every return path, panics included.
func WithWorkingDir(dir string, fn func() error) (err error) {
	prev, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "getting working directory")
	}
	if err = os.Chdir(dir); err != nil {
		return errors.Wrapf(err, "changing into %s", dir)
	}
	defer func() {
		if cerr := os.Chdir(prev); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "restoring working directory %s", prev)
		}
	}()
	return fn()
}

func IsDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func IsFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// ReadTrimmed returns the whitespace-trimmed contents of a file.
func ReadTrimmed(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
