// Package passwd looks accounts up in the host user database.
package passwd

import (
	"os/user"

	"github.com/pkg/errors"

	"github.com/trezcool/turnin/core/account"
)

var lookupFunc = user.Lookup // mockable

type accountDirectory struct{}

var _ account.Directory = (*accountDirectory)(nil)

func NewAccountDirectory() account.Directory {
	return &accountDirectory{}
}

func (accountDirectory) Lookup(username string) (account.Account, error) {
	usr, err := lookupFunc(username)
	if err != nil {
		if _, ok := err.(user.UnknownUserError); ok {
			return account.Account{}, errors.Wrap(account.ErrNotFound, username)
		}
		return account.Account{}, errors.Wrapf(err, "looking up %s", username)
	}
	return account.Account{Username: usr.Username, DisplayName: usr.Name}, nil
}
