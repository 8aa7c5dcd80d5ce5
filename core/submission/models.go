package submission

import (
	"strconv"

	"github.com/pkg/errors"
)

// ErrNoSubmissions is returned when a source directory holds no archive with the expected extension.
var ErrNoSubmissions = errors.New("no submissions found")

// Submission is the latest archive turned in by one user.
type Submission struct {
	User     string
	Revision int // 0: the first (unsuffixed) archive
}

// ID returns the identifier used for archive and working directory names: `user` or `user-N`.
func (s Submission) ID() string {
	if s.Revision > 0 {
		return s.User + "-" + strconv.Itoa(s.Revision)
	}
	return s.User
}

func (s Submission) String() string { return s.ID() }
