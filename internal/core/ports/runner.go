package ports

import (
	"context"
	"io"

	"go.trai.ch/kiln/internal/core/domain"
)

// CommandRunner invokes one external command as an isolated subprocess
// with a structured argument vector, an explicit working directory and
// an in-process wall-clock deadline.
//
// A non-zero exit or a timeout is reported through the CommandResult,
// not through the error; the error is reserved for failures to spawn
// or observe the process at all.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes the command. Combined output is returned on the
	// result and additionally streamed to any provided sinks (partial
	// lines included).
	Run(ctx context.Context, dir string, spec domain.CommandSpec, env []string, sinks ...io.Writer) (domain.CommandResult, error)
}
