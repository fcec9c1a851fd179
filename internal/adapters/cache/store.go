// Package cache implements the fingerprint-keyed artifact store.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactStore = (*Store)(nil)

// Store implements ports.ArtifactStore as a directory tree under a
// single cache root. One directory per fingerprint; a marker file
// inside the directory denotes a fully committed build. Entries are
// never mutated after commit and never evicted automatically.
type Store struct {
	root string
}

// NewStore creates a store rooted at the given cache root, creating
// the layout directories if needed.
func NewStore(root string) (*Store, error) {
	s := &Store{root: filepath.Clean(root)}

	for _, dir := range []string{
		domain.ArtifactsPath(s.root),
		domain.StagingPath(s.root),
		domain.LocksPath(s.root),
		domain.OutputPath(s.root),
	} {
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheCreateFailed.Error()), "dir", dir)
		}
	}

	return s, nil
}

// Root returns the cache root the store operates on.
func (s *Store) Root() string {
	return s.root
}

// Path returns the canonical artifact directory for a fingerprint.
func (s *Store) Path(fp domain.Fingerprint) string {
	return filepath.Join(domain.ArtifactsPath(s.root), fp.String())
}

// CapturePath returns the per-fingerprint execution capture file.
func (s *Store) CapturePath(fp domain.Fingerprint) string {
	return filepath.Join(domain.OutputPath(s.root), fp.String()+".out")
}

// Lookup reports whether a valid committed artifact exists for the
// fingerprint. It only inspects committed state; a directory without
// the marker (a crashed half-commit, or a commit still in staging) is
// never valid.
func (s *Store) Lookup(fp domain.Fingerprint) ports.CacheEntry {
	dir := s.Path(fp)
	entry := ports.CacheEntry{Fingerprint: fp, Dir: dir}

	info, err := os.Stat(filepath.Join(dir, domain.MarkerFileName))
	entry.Valid = err == nil && info.Mode().IsRegular()

	return entry
}

// StagingDir creates a fresh process-private staging directory for one
// build attempt of the fingerprint.
func (s *Store) StagingDir(fp domain.Fingerprint) (string, error) {
	dir, err := os.MkdirTemp(domain.StagingPath(s.root), fp.Short()+"-*")
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrCacheCreateFailed.Error())
	}
	return dir, nil
}

// Commit publishes a staged build under the fingerprint's canonical
// path. The marker file is written into the staging directory first,
// then a single rename moves the whole tree into place, so the marker
// is observable only through a fully committed directory.
//
// Must be called while holding the fingerprint's build lock.
func (s *Store) Commit(fp domain.Fingerprint, stagingDir string) error {
	marker := filepath.Join(stagingDir, domain.MarkerFileName)
	stamp := fmt.Sprintf("%s %s\n", fp.String(), time.Now().UTC().Format(time.RFC3339))
	if err := os.WriteFile(marker, []byte(stamp), domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheCommitFailed.Error())
	}

	target := s.Path(fp)
	if err := os.Rename(stagingDir, target); err != nil {
		// A valid entry may already exist if a previous commit for this
		// fingerprint completed after we staged (e.g. a forced rebuild
		// raced a crash recovery). The committed entry wins.
		if s.Lookup(fp).Valid {
			_ = os.RemoveAll(stagingDir)
			return nil
		}
		// A leftover invalid directory blocks the rename; clear it and
		// retry once. We hold the lock, so no live build owns it.
		if removeErr := os.RemoveAll(target); removeErr == nil {
			if err = os.Rename(stagingDir, target); err == nil {
				return nil
			}
		}
		return zerr.With(zerr.Wrap(err, domain.ErrCacheCommitFailed.Error()), "fingerprint", fp.Short())
	}

	return nil
}

// Prune removes committed entries whose marker is older than maxAge,
// along with their capture files, and clears abandoned staging
// directories of the same age. Invalid (marker-less) artifact
// directories are removed regardless of age.
func (s *Store) Prune(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	entries, err := os.ReadDir(domain.ArtifactsPath(s.root))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, zerr.Wrap(err, "failed to read artifacts directory")
	}

	var errs error
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		fp := domain.Fingerprint(entry.Name())
		dir := s.Path(fp)

		info, statErr := os.Stat(filepath.Join(dir, domain.MarkerFileName))
		if statErr == nil && info.ModTime().After(cutoff) {
			continue
		}

		if rmErr := os.RemoveAll(dir); rmErr != nil {
			errs = errors.Join(errs, rmErr)
			continue
		}
		_ = os.Remove(s.CapturePath(fp))
		removed++
	}

	errs = errors.Join(errs, s.pruneStaging(cutoff))

	return removed, errs
}

func (s *Store) pruneStaging(cutoff time.Time) error {
	entries, err := os.ReadDir(domain.StagingPath(s.root))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read staging directory")
	}

	var errs error
	for _, entry := range entries {
		info, infoErr := entry.Info()
		if infoErr != nil || info.ModTime().After(cutoff) {
			continue
		}
		errs = errors.Join(errs, os.RemoveAll(filepath.Join(domain.StagingPath(s.root), entry.Name())))
	}
	return errs
}
