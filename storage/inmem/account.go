// Package inmem provides an in-memory account directory, for tests and dry runs.
package inmem

import (
	"sync"

	"github.com/trezcool/turnin/core/account"
)

type accountDirectory struct {
	table map[string]account.Account
	mutex sync.RWMutex
}

var _ account.Directory = (*accountDirectory)(nil)

// NewAccountDirectory returns a directory holding accs.
func NewAccountDirectory(accs ...account.Account) *accountDirectory {
	dir := &accountDirectory{table: make(map[string]account.Account, len(accs))}
	for _, acc := range accs {
		dir.table[acc.Username] = acc
	}
	return dir
}

// Add creates or replaces an account.
func (dir *accountDirectory) Add(username, displayName string) {
	dir.mutex.Lock()
	defer dir.mutex.Unlock()
	dir.table[username] = account.Account{Username: username, DisplayName: displayName}
}

func (dir *accountDirectory) Lookup(username string) (account.Account, error) {
	dir.mutex.RLock()
	defer dir.mutex.RUnlock()

	if acc, ok := dir.table[username]; ok {
		return acc, nil
	}
	return account.Account{}, account.ErrNotFound
}
