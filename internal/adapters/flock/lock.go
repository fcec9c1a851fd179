// Package flock implements the per-fingerprint advisory build lock.
package flock

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildLocker = (*Locker)(nil)

// owner is the record written into a lock file. It identifies the
// process that took the lock so that maintenance tooling can detect
// locks left behind by crashed processes. The hot path never reads it.
type owner struct {
	Token    string    `json:"token"`
	PID      int       `json:"pid"`
	Acquired time.Time `json:"acquired"`
}

// Locker implements ports.BuildLocker with exclusive-create lock files
// under the cache root. Acquisition is strictly non-blocking: on
// contention the caller is told no, immediately, and is expected to
// fail the current run.
type Locker struct {
	root string

	mu   sync.Mutex
	held map[domain.Fingerprint]string // fingerprint -> owner token
}

// NewLocker creates a locker for the given cache root.
func NewLocker(root string) *Locker {
	return &Locker{
		root: filepath.Clean(root),
		held: make(map[domain.Fingerprint]string),
	}
}

func (l *Locker) path(fp domain.Fingerprint) string {
	return filepath.Join(domain.LocksPath(l.root), fp.String()+".lock")
}

// TryAcquire attempts to take the exclusive build lock for a
// fingerprint. Returns false, nil when another holder exists.
//
// The owner record is staged in a private file and hard-linked into the
// lock path, so the lock file never exists on disk without a complete
// record. ClearStale may therefore treat any unreadable lock as
// corruption rather than a live acquire in flight.
func (l *Locker) TryAcquire(fp domain.Fingerprint) (bool, error) {
	locksDir := domain.LocksPath(l.root)
	if err := os.MkdirAll(locksDir, domain.DirPerm); err != nil {
		return false, zerr.Wrap(err, domain.ErrCacheCreateFailed.Error())
	}

	rec := owner{
		Token:    uuid.NewString(),
		PID:      os.Getpid(),
		Acquired: time.Now().UTC(),
	}

	staged, err := os.CreateTemp(locksDir, fp.String()+".owner-*")
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to stage lock owner record"), "fingerprint", fp.Short())
	}
	stagedPath := staged.Name()
	defer func() {
		_ = os.Remove(stagedPath)
	}()

	encErr := json.NewEncoder(staged).Encode(rec)
	closeErr := staged.Close()
	if err := errors.Join(encErr, closeErr); err != nil {
		return false, zerr.Wrap(err, "failed to write lock owner record")
	}

	// Link fails with EEXIST when another holder got there first.
	if err := os.Link(stagedPath, l.path(fp)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to create lock file"), "fingerprint", fp.Short())
	}

	l.mu.Lock()
	l.held[fp] = rec.Token
	l.mu.Unlock()

	return true, nil
}

// Release releases a lock previously acquired by this locker. It is
// idempotent, and a no-op when TryAcquire returned false or was never
// called for the fingerprint: releasing never touches a lock file owned
// by another process.
func (l *Locker) Release(fp domain.Fingerprint) error {
	l.mu.Lock()
	_, ours := l.held[fp]
	delete(l.held, fp)
	l.mu.Unlock()

	if !ours {
		return nil
	}

	if err := os.Remove(l.path(fp)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove lock file"), "fingerprint", fp.Short())
	}
	return nil
}

// ClearStale removes lock files whose recorded owner process is no
// longer alive. This is an explicit maintenance operation (clean
// --locks); the run path never self-heals stale locks, because it
// cannot distinguish a crashed owner from a live one portably and
// cheaply enough to justify the race window.
func (l *Locker) ClearStale() (int, error) {
	entries, err := os.ReadDir(domain.LocksPath(l.root))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, zerr.Wrap(err, "failed to read locks directory")
	}

	removed := 0
	var errs error
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lock" {
			continue
		}

		path := filepath.Join(domain.LocksPath(l.root), entry.Name())
		rec, readErr := readOwner(path)
		if readErr != nil {
			// Acquisition links a complete record into place, so an
			// unreadable lock has no owner to check. Treat as stale.
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				errs = errors.Join(errs, rmErr)
				continue
			}
			removed++
			continue
		}

		if processAlive(rec.PID) {
			continue
		}

		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			errs = errors.Join(errs, rmErr)
			continue
		}
		removed++
	}

	return removed, errs
}

func readOwner(path string) (owner, error) {
	var rec owner

	//nolint:gosec // Path is inside the trusted cache root
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, zerr.Wrap(err, domain.ErrLockCorrupt.Error())
	}
	if err := json.Unmarshal(data, &rec); err != nil || rec.PID == 0 {
		return rec, zerr.Wrap(domain.ErrLockCorrupt, "invalid owner record")
	}
	return rec, nil
}

// processAlive reports whether a pid refers to a live process. Signal 0
// performs the existence check without delivering anything.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
