package domain

import (
	"os"
	"path/filepath"
)

const (
	// KilnDirName is the name of the kiln cache directory inside the
	// user cache dir.
	KilnDirName = "kiln"

	// ArtifactsDirName holds one committed build directory per
	// fingerprint.
	ArtifactsDirName = "artifacts"

	// StagingDirName holds process-private build staging directories.
	StagingDirName = "staging"

	// LocksDirName holds per-fingerprint build lock files.
	LocksDirName = "locks"

	// OutputDirName holds per-fingerprint execution capture files.
	OutputDirName = "output"

	// MarkerFileName denotes a fully committed build inside an artifact
	// directory. Its presence is the validity criterion for a cache
	// entry; it is always the last thing written before commit.
	MarkerFileName = ".kiln-ok"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "kiln.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCacheRoot returns the default cache root directory, e.g.
// ~/.cache/kiln on Linux. It falls back to a local .kiln directory when
// the user cache dir cannot be determined.
func DefaultCacheRoot() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return "." + KilnDirName
	}
	return filepath.Join(base, KilnDirName)
}

// ArtifactsPath returns the artifacts directory under a cache root.
func ArtifactsPath(cacheRoot string) string {
	return filepath.Join(cacheRoot, ArtifactsDirName)
}

// StagingPath returns the staging directory under a cache root.
func StagingPath(cacheRoot string) string {
	return filepath.Join(cacheRoot, StagingDirName)
}

// LocksPath returns the locks directory under a cache root.
func LocksPath(cacheRoot string) string {
	return filepath.Join(cacheRoot, LocksDirName)
}

// OutputPath returns the execution output directory under a cache root.
func OutputPath(cacheRoot string) string {
	return filepath.Join(cacheRoot, OutputDirName)
}
