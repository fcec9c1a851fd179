package flock_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/flock"
	"go.trai.ch/kiln/internal/core/domain"
)

const fp = domain.Fingerprint("0000111122223333444455556666777788889999aaaabbbbccccddddeeeeffff")

func TestLocker_AcquireRelease(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	locker := flock.NewLocker(root)

	ok, err := locker.TryAcquire(fp)
	require.NoError(t, err)
	require.True(t, ok)

	// Same fingerprint is contended, a different one is not.
	other := flock.NewLocker(root)
	ok, err = other.TryAcquire(fp)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = other.TryAcquire("different")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, locker.Release(fp))

	ok, err = other.TryAcquire(fp)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocker_ReleaseIdempotent(t *testing.T) {
	t.Parallel()

	locker := flock.NewLocker(t.TempDir())

	// Release without acquire is a no-op.
	require.NoError(t, locker.Release(fp))

	ok, err := locker.TryAcquire(fp)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, locker.Release(fp))
	require.NoError(t, locker.Release(fp))
}

func TestLocker_ReleaseAfterFailedAcquireKeepsForeignLock(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	holder := flock.NewLocker(root)
	ok, err := holder.TryAcquire(fp)
	require.NoError(t, err)
	require.True(t, ok)

	loser := flock.NewLocker(root)
	ok, err = loser.TryAcquire(fp)
	require.NoError(t, err)
	require.False(t, ok)

	// The loser releasing must not free the holder's lock.
	require.NoError(t, loser.Release(fp))

	ok, err = flock.NewLocker(root).TryAcquire(fp)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocker_OwnerRecord(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	locker := flock.NewLocker(root)
	ok, err := locker.TryAcquire(fp)
	require.NoError(t, err)
	require.True(t, ok)

	data, err := os.ReadFile(filepath.Join(domain.LocksPath(root), fp.String()+".lock"))
	require.NoError(t, err)

	var rec struct {
		Token string `json:"token"`
		PID   int    `json:"pid"`
	}
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.NotEmpty(t, rec.Token)
	assert.Equal(t, os.Getpid(), rec.PID)
}

func TestLocker_AcquireIsAtomic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	locker := flock.NewLocker(root)

	ok, err := locker.TryAcquire(fp)
	require.NoError(t, err)
	require.True(t, ok)

	// The lock file is the only entry and already carries a complete
	// owner record; staging leftovers would confuse maintenance.
	entries, err := os.ReadDir(domain.LocksPath(root))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fp.String()+".lock", entries[0].Name())
}

func TestLocker_ClearStaleNeverRemovesLiveLock(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	holder := flock.NewLocker(root)
	janitor := flock.NewLocker(root)

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		for {
			select {
			case <-stop:
				done <- nil
				return
			default:
			}
			if _, err := janitor.ClearStale(); err != nil {
				done <- err
				return
			}
		}
	}()

	for range 200 {
		ok, err := holder.TryAcquire(fp)
		require.NoError(t, err)
		require.True(t, ok)

		// The lock must stay held against concurrent maintenance.
		contended, err := flock.NewLocker(root).TryAcquire(fp)
		require.NoError(t, err)
		require.False(t, contended, "maintenance removed a live lock")

		require.NoError(t, holder.Release(fp))
	}

	close(stop)
	require.NoError(t, <-done)
}

func TestLocker_ClearStale(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	locker := flock.NewLocker(root)

	// A live lock (our own pid) must survive.
	ok, err := locker.TryAcquire(fp)
	require.NoError(t, err)
	require.True(t, ok)

	// A dead owner's lock must be cleared. Pid 1 is alive but EPERM
	// counts as alive, so fabricate an impossible pid instead.
	dead := filepath.Join(domain.LocksPath(root), "deadfp.lock")
	require.NoError(t, os.WriteFile(dead, []byte(`{"token":"x","pid":999999999}`), 0o644))

	// A corrupt lock is treated as stale.
	corrupt := filepath.Join(domain.LocksPath(root), "corrupt.lock")
	require.NoError(t, os.WriteFile(corrupt, []byte("not json"), 0o644))

	removed, err := locker.ClearStale()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = os.Stat(dead)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(corrupt)
	assert.True(t, os.IsNotExist(err))

	ok, err = flock.NewLocker(root).TryAcquire(fp)
	require.NoError(t, err)
	assert.False(t, ok, "live lock must survive ClearStale")
}
