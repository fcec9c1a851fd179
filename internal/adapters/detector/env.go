// Package detector decides how a kiln run presents itself: the
// interactive TUI for a developer at a terminal, linear stage logs for
// CI systems and pipes.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode selects the renderer for a run.
type OutputMode int

const (
	// ModeAuto defers to environment detection.
	ModeAuto OutputMode = iota
	// ModeTUI renders the interactive stage list.
	ModeTUI
	// ModeLinear renders chronological stage logs.
	ModeLinear
)

func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// ciMarkers are environment variables whose truthy presence identifies
// a CI runner. "CI" itself is the de-facto convention; the rest cover
// runners that predate it.
var ciMarkers = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "BUILDKITE"}

// DetectEnvironment recommends an output mode for the current process.
// Anything that is not an interactive developer terminal gets linear
// logs: a TUI drawn into a CI log or a pipe is worse than useless.
func DetectEnvironment() OutputMode {
	if runningInCI() || !stdoutIsTerminal() {
		return ModeLinear
	}
	return ModeTUI
}

// ResolveMode applies the user's --output-mode flag over the detected
// mode. Unknown values fall back to detection rather than failing the
// run.
func ResolveMode(detected OutputMode, flag string) OutputMode {
	switch flag {
	case "tui":
		return ModeTUI
	case "linear", "ci":
		return ModeLinear
	default:
		return detected
	}
}

func runningInCI() bool {
	for _, name := range ciMarkers {
		switch os.Getenv(name) {
		case "true", "1":
			return true
		}
	}
	return false
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
