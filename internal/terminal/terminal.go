// Package terminal wraps terminal detection and styled output.
package terminal

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Colors used for highlighted records.
const (
	Pink   = "212"
	Yellow = "11"
)

// IsTerminal returns whether the stream is connected to a terminal.
func IsTerminal(stream any) bool {
	f, ok := stream.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// NewOutput returns a styled output for w. Colors are only emitted when
// color is set and w is a terminal that supports them.
func NewOutput(w io.Writer, color bool) *termenv.Output {
	if !color || !IsTerminal(w) {
		return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	}
	return termenv.NewOutput(w)
}

// Colorize returns s in the given color of the output profile.
func Colorize(out *termenv.Output, s, color string) string {
	if out.Profile == termenv.Ascii {
		return s
	}
	return out.String(s).Foreground(out.Color(color)).String()
}

// Stdin returns whether standard input is interactive.
func Stdin() bool {
	return IsTerminal(os.Stdin)
}
