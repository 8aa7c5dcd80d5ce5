// Package prompt asks the operator yes/no questions before destructive or expensive work.
package prompt

import (
	"bufio"
	"fmt"
	"io"

	"github.com/trezcool/turnin/core"
)

type Gate struct {
	force bool
	in    *bufio.Reader
	out   io.Writer
}

// NewGate returns a Gate reading answers from in. With force set, every question is
// accepted without being asked. A nil in behaves like a closed stdin.
func NewGate(force bool, in io.Reader, out io.Writer) *Gate {
	g := &Gate{force: force, out: out}
	if in != nil {
		g.in = bufio.NewReader(in)
	}
	return g
}

// Confirm asks question once and reports whether it was accepted.
// A quit response returns core.ErrUserQuit.
func (g *Gate) Confirm(question string) (bool, error) {
	if g.force {
		return true, nil
	}
	if g.out != nil {
		_, _ = fmt.Fprintf(g.out, "%s: ", question)
	}
	if g.in == nil {
		return false, nil
	}

	line, err := g.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch core.CleanString(line, true /* lower */) {
	case "quit", "q":
		return false, core.ErrUserQuit
	case "yes", "y", "1":
		return true, nil
	default:
		return false, nil
	}
}
