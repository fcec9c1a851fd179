// Package shell provides the subprocess runner for build and run
// commands.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CommandRunner = (*Runner)(nil)

// killGrace is how long a timed-out process gets between the cancel
// signal and a hard kill.
const killGrace = 2 * time.Second

// Runner implements ports.CommandRunner using os/exec. Commands are
// invoked with a structured argument vector and an explicit working
// directory; no shell-string composition or external timeout utility
// is involved. The wall-clock budget is enforced in-process via the
// context, which behaves the same on every platform.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes spec.Argv in dir and captures combined stdout/stderr.
// A timeout is reported distinctly through CommandResult.TimedOut; the
// returned error is reserved for failures to start or observe the
// process.
func (r *Runner) Run(
	ctx context.Context,
	dir string,
	spec domain.CommandSpec,
	env []string,
	sinks ...io.Writer,
) (domain.CommandResult, error) {
	if len(spec.Argv) == 0 {
		return domain.CommandResult{}, zerr.New("empty command")
	}

	var budget context.Context
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		budget, cancel = context.WithTimeoutCause(ctx, spec.Timeout, errBudgetElapsed)
		defer cancel()
		ctx = budget
	}

	name := spec.Argv[0]
	args := spec.Argv[1:]

	cmdEnv := resolveEnvironment(os.Environ(), env)

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // argv comes from trusted config
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Dir = dir
	cmd.Env = cmdEnv
	cmd.WaitDelay = killGrace

	var combined bytes.Buffer
	out := io.Writer(&combined)
	logSink := &logWriter{logger: r.logger}
	sinks = append(sinks, logSink)
	out = io.MultiWriter(append([]io.Writer{out}, sinks...)...)
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	_ = logSink.Close()

	result := domain.CommandResult{Output: combined.String()}

	if timedOut(budget, err) {
		result.TimedOut = true
		result.ExitCode = -1
		return result, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, zerr.With(zerr.Wrap(err, "failed to run command"), "command", name)
	}

	return result, nil
}

// errBudgetElapsed marks a cancellation caused by the command's own
// wall-clock budget, as opposed to whatever deadline or cancellation
// the caller's context carried.
var errBudgetElapsed = errors.New("command budget elapsed")

// timedOut reports whether a command failure was caused by the
// command's budget rather than the command itself or the caller.
func timedOut(budget context.Context, err error) bool {
	if err == nil || budget == nil {
		return false
	}
	return errors.Is(context.Cause(budget), errBudgetElapsed)
}

// logWriter forwards complete output lines to the logger.
type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	if w.logger == nil {
		return len(p), nil
	}

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *logWriter) Close() error {
	if w.logger != nil && len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	w.logger.Info(strings.TrimSuffix(string(line), "\r"))
}

// resolveEnvironment merges extra KEY=VALUE pairs over an allow-listed
// system base. The build environment stays close to hermetic while
// basic tools keep working.
func resolveEnvironment(sysEnv, extra []string) []string {
	envMap := filterSystemEnv(sysEnv)

	for _, entry := range extra {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// allowListedEnvVars are the system environment variables inherited by
// toolchain commands.
var allowListedEnvVars = map[string]struct{}{
	"HOME": {},
	"LANG": {},
	"TERM": {},
	"USER": {},
	"PATH": {},
}

func filterSystemEnv(sysEnv []string) map[string]string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			if _, allowed := allowListedEnvVars[k]; allowed {
				envMap[k] = v
			}
		}
	}
	return envMap
}

// lookPath searches for an executable in the PATH of the resolved
// environment rather than the parent process's.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
