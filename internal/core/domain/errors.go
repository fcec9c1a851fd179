package domain

import "go.trai.ch/zerr"

var (
	// ErrLockUnavailable is returned when another process holds the build
	// lock for a fingerprint. Fatal for the current invocation; never
	// retried.
	ErrLockUnavailable = zerr.New("another build is in progress for this notebook")

	// ErrBuildFailed is returned when the external build command exits
	// non-zero.
	ErrBuildFailed = zerr.New("build failed")

	// ErrBuildTimedOut is returned when the external build command
	// exceeds its wall-clock budget.
	ErrBuildTimedOut = zerr.New("build timed out")

	// ErrExecutionFailed is returned when running the built artifact
	// exits non-zero.
	ErrExecutionFailed = zerr.New("execution failed")

	// ErrExecutionTimedOut is returned when running the built artifact
	// exceeds its wall-clock budget.
	ErrExecutionTimedOut = zerr.New("execution timed out")

	// ErrRunFailed is returned by the app layer when at least one
	// notebook run was unsuccessful.
	ErrRunFailed = zerr.New("notebook run failed")

	// ErrNoNotebooksSpecified is returned when the run command receives
	// no notebook paths.
	ErrNoNotebooksSpecified = zerr.New("no notebooks specified")

	// ErrNotebookParseFailed is returned when a notebook document cannot
	// be parsed into cells.
	ErrNotebookParseFailed = zerr.New("failed to parse notebook")

	// ErrGenerateFailed is returned when project generation fails.
	ErrGenerateFailed = zerr.New("failed to generate project tree")

	// ErrUnknownToolchain is returned when a notebook or config names a
	// toolchain that is not defined.
	ErrUnknownToolchain = zerr.New("unknown toolchain")

	// ErrCacheCommitFailed is returned when a built directory cannot be
	// moved into its canonical cache path.
	ErrCacheCommitFailed = zerr.New("failed to commit cache entry")

	// ErrCacheCreateFailed is returned when the cache root layout cannot
	// be created.
	ErrCacheCreateFailed = zerr.New("failed to create cache directory")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be
	// parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrLockCorrupt is returned when a lock file exists but its owner
	// record cannot be decoded.
	ErrLockCorrupt = zerr.New("lock file is corrupt")
)
