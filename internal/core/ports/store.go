package ports

import (
	"time"

	"go.trai.ch/kiln/internal/core/domain"
)

// CacheEntry describes the cache state for one fingerprint.
type CacheEntry struct {
	Fingerprint domain.Fingerprint
	Dir         string
	Valid       bool
}

// ArtifactStore is the fingerprint-keyed directory store for built
// artifacts.
//
// Lookup is a pure read of committed state and needs no locking.
// Commit must only be called while the corresponding build lock is
// held; it makes the staged directory visible under the canonical path
// in a single atomic rename, with the validity marker written last, so
// that a reader can never observe a half-written entry as valid.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ArtifactStore interface {
	// Path returns the canonical artifact directory for a fingerprint.
	// Pure function of the fingerprint and the configured cache root.
	Path(fp domain.Fingerprint) string

	// Lookup reports whether a valid committed artifact exists for the
	// fingerprint.
	Lookup(fp domain.Fingerprint) CacheEntry

	// StagingDir creates a fresh process-private staging directory for a
	// build attempt. The caller must remove it on every exit path that
	// does not commit it.
	StagingDir(fp domain.Fingerprint) (string, error)

	// Commit atomically publishes a staged build under the fingerprint's
	// canonical path.
	Commit(fp domain.Fingerprint, stagingDir string) error

	// CapturePath returns the deterministic per-fingerprint execution
	// output-capture file path under the cache root.
	CapturePath(fp domain.Fingerprint) string

	// Prune removes committed entries older than maxAge along with their
	// capture files. It is a maintenance operation, never part of the
	// run path. It returns the number of entries removed.
	Prune(maxAge time.Duration) (int, error)
}
