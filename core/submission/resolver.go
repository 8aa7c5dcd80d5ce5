// Package submission finds the latest turned in archive of every user in a turnin directory.
package submission

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/turnin/core"
)

// turnin names archives `user.EXT`, then `user-1.EXT`, `user-2.EXT`... on resubmission.
// Hyphens not followed by the revision are kept in the user token, so usernames
// containing a hyphen followed by digits are not supported.
const submitPattern = `^([A-Za-z0-9_.]+([A-Za-z_.-]*))(-(\d+))?.`

// Resolve lists dir and returns the highest revision of every user, sorted by ID.
// Names that cannot be parsed are skipped with a warning.
func Resolve(dir, ext string, logger core.Logger) ([]Submission, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(ErrNoSubmissions, "listing %s: %v", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(e.Name(), ext) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, errors.Wrapf(ErrNoSubmissions, "no files in %s with extension %s", dir, ext)
	}

	submitRe := regexp.MustCompile(submitPattern + regexp.QuoteMeta(ext))
	latest := make(map[string]int) // {user: revision}
	for _, name := range names {
		user, rev, ok := parseName(submitRe, name)
		if !ok {
			logger.Warn(fmt.Sprintf("Failed to handle: %s", name))
			continue
		}
		if prev, found := latest[user]; !found || rev > prev {
			latest[user] = rev
		}
	}

	subs := make([]Submission, 0, len(latest))
	for user, rev := range latest {
		subs = append(subs, Submission{User: user, Revision: rev})
	}
	sortByID(subs)
	return subs, nil
}

// sortByID uses string order on purpose: user-10 sorts before user-2.
func sortByID(subs []Submission) {
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID() < subs[j].ID() })
}

func parseName(re *regexp.Regexp, name string) (user string, rev int, ok bool) {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return "", 0, false
	}
	if m[4] != "" {
		n, err := strconv.Atoi(m[4])
		if err != nil {
			return "", 0, false
		}
		rev = n
	}
	return m[1], rev, true
}
