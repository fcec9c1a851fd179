package shell_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/shell"
	"go.trai.ch/kiln/internal/core/domain"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test uses sh")
	}
}

func TestRunner_Success(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	r := shell.NewRunner(nil)
	res, err := r.Run(context.Background(), t.TempDir(), domain.CommandSpec{
		Argv:    []string{"sh", "-c", "echo hello; echo oops >&2"},
		Timeout: 30 * time.Second,
	}, nil)
	require.NoError(t, err)

	assert.True(t, res.OK())
	assert.Zero(t, res.ExitCode)
	assert.False(t, res.TimedOut)
	// Combined capture includes both streams.
	assert.Contains(t, res.Output, "hello")
	assert.Contains(t, res.Output, "oops")
}

func TestRunner_WorkingDirectory(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), []byte("x"), 0o644))

	r := shell.NewRunner(nil)
	res, err := r.Run(context.Background(), dir, domain.CommandSpec{
		Argv:    []string{"sh", "-c", "cat marker"},
		Timeout: 30 * time.Second,
	}, nil)
	require.NoError(t, err)

	assert.True(t, res.OK())
	assert.Equal(t, "x", res.Output)
}

func TestRunner_NonZeroExit(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	r := shell.NewRunner(nil)
	res, err := r.Run(context.Background(), t.TempDir(), domain.CommandSpec{
		Argv:    []string{"sh", "-c", "echo broken; exit 3"},
		Timeout: 30 * time.Second,
	}, nil)
	require.NoError(t, err, "non-zero exit is a result, not an error")

	assert.False(t, res.OK())
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.TimedOut)
	assert.Contains(t, res.Output, "broken")
}

func TestRunner_Timeout(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	r := shell.NewRunner(nil)
	start := time.Now()
	res, err := r.Run(context.Background(), t.TempDir(), domain.CommandSpec{
		Argv:    []string{"sh", "-c", "sleep 30"},
		Timeout: 100 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	assert.True(t, res.TimedOut, "deadline expiry must be reported as TimedOut, not a plain failure")
	assert.False(t, res.OK())
	assert.Less(t, time.Since(start), 10*time.Second, "process must be terminated promptly")
}

func TestRunner_CallerCancellationIsNotATimeout(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	// The caller's deadline expires well inside the command's budget.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	r := shell.NewRunner(nil)
	res, err := r.Run(ctx, t.TempDir(), domain.CommandSpec{
		Argv:    []string{"sh", "-c", "sleep 30"},
		Timeout: time.Minute,
	}, nil)
	require.NoError(t, err)

	assert.False(t, res.TimedOut, "an interrupted run must not be reported as the command's own timeout")
	assert.False(t, res.OK())
}

func TestRunner_ExtraEnv(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	r := shell.NewRunner(nil)
	res, err := r.Run(context.Background(), t.TempDir(), domain.CommandSpec{
		Argv:    []string{"sh", "-c", `printf '%s' "$KILN_CAPTURE"`},
		Timeout: 30 * time.Second,
	}, []string{"KILN_CAPTURE=/tmp/cap"})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/cap", res.Output)
}

func TestRunner_Sinks(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	var sink bytes.Buffer
	r := shell.NewRunner(nil)
	res, err := r.Run(context.Background(), t.TempDir(), domain.CommandSpec{
		Argv:    []string{"sh", "-c", "printf streamed"},
		Timeout: 30 * time.Second,
	}, nil, &sink)
	require.NoError(t, err)

	assert.Equal(t, "streamed", res.Output)
	assert.Equal(t, "streamed", sink.String())
}

func TestRunner_EmptyCommand(t *testing.T) {
	t.Parallel()

	r := shell.NewRunner(nil)
	_, err := r.Run(context.Background(), t.TempDir(), domain.CommandSpec{}, nil)
	require.Error(t, err)
}

func TestRunner_SpawnFailure(t *testing.T) {
	t.Parallel()

	r := shell.NewRunner(nil)
	_, err := r.Run(context.Background(), t.TempDir(), domain.CommandSpec{
		Argv:    []string{"kiln-definitely-not-a-binary"},
		Timeout: time.Second,
	}, nil)
	require.Error(t, err)
}
