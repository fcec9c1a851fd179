// Package output owns terminal color handling for kiln. Profile
// selection happens in exactly one place so the TUI, the linear
// renderer and the logger degrade identically when color is
// unavailable or unwanted.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// colorDisabled honors the NO_COLOR convention: any non-empty value
// turns styling off everywhere.
func colorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// Detected returns the profile the environment advertises. The logger
// uses this; its stderr may be a terminal, a pipe or a CI collector.
func Detected() termenv.Profile {
	if colorDisabled() {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// CI returns the lowest-common-denominator ANSI profile for linear
// stage logs, whose usual consumer is a CI log viewer.
func CI() termenv.Profile {
	if colorDisabled() {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// Interactive returns the full-color profile for the TUI panes, which
// only run once a capable terminal was detected.
func Interactive() termenv.Profile {
	if colorDisabled() {
		return termenv.Ascii
	}
	return termenv.TrueColor
}

// Terminal wraps w in a termenv.Output pinned to the given profile. The
// writer is treated as a TTY even when it is a buffer or pipe, so
// styling is decided by the profile rather than by fd probing.
func Terminal(w io.Writer, profile termenv.Profile) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, termenv.WithProfile(profile), termenv.WithTTY(true))
}
