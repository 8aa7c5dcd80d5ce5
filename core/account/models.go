// Package account models the host account directory used to put names on usernames.
package account

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when the host has no account for a username.
var ErrNotFound = errors.New("no such account")

type (
	// Account is an entry of the host account directory.
	Account struct {
		Username    string
		DisplayName string // the real name (GECOS) of the account
	}

	// Directory looks accounts up by username.
	Directory interface {
		Lookup(username string) (Account, error)
	}
)

// FirstName returns every word of the display name but the last one.
func (a Account) FirstName() string {
	parts := strings.Fields(a.DisplayName)
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[:len(parts)-1], " ")
}

// LastName returns the last word of the display name; multi-word last names are not supported.
func (a Account) LastName() string {
	parts := strings.Fields(a.DisplayName)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
