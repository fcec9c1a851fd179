package cache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/cache"
	"go.trai.ch/kiln/internal/core/domain"
)

const fp = domain.Fingerprint("aaaabbbbccccddddeeeeffff0000111122223333444455556666777788889999")

func newStore(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestStore_PathIsPure(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	assert.Equal(t, store.Path(fp), store.Path(fp))
	assert.NotEqual(t, store.Path(fp), store.Path("other"))
	assert.Equal(t, store.Root(), filepath.Dir(filepath.Dir(store.Path(fp))))
}

func TestStore_LookupMiss(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	entry := store.Lookup(fp)
	assert.False(t, entry.Valid)
	assert.Equal(t, store.Path(fp), entry.Dir)
}

func TestStore_CommitThenLookup(t *testing.T) {
	t.Parallel()

	store := newStore(t)

	staging, err := store.StagingDir(fp)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(staging, "artifact"), []byte("bin"), 0o644))

	require.NoError(t, store.Commit(fp, staging))

	entry := store.Lookup(fp)
	assert.True(t, entry.Valid)

	data, err := os.ReadFile(filepath.Join(entry.Dir, "artifact"))
	require.NoError(t, err)
	assert.Equal(t, "bin", string(data))

	// Staging dir has been moved away entirely.
	_, err = os.Stat(staging)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_HalfWrittenEntryIsNotValid(t *testing.T) {
	t.Parallel()

	store := newStore(t)

	// Simulate a crash mid-commit: artifact directory exists but the
	// marker was never written.
	dir := store.Path(fp)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "artifact"), []byte("partial"), 0o644))

	assert.False(t, store.Lookup(fp).Valid)
}

func TestStore_CommitReplacesHalfWrittenEntry(t *testing.T) {
	t.Parallel()

	store := newStore(t)

	dir := store.Path(fp)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale"), []byte("x"), 0o644))

	staging, err := store.StagingDir(fp)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(staging, "artifact"), []byte("bin"), 0o644))

	require.NoError(t, store.Commit(fp, staging))

	entry := store.Lookup(fp)
	require.True(t, entry.Valid)
	_, err = os.Stat(filepath.Join(entry.Dir, "stale"))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_CommitKeepsExistingValidEntry(t *testing.T) {
	t.Parallel()

	store := newStore(t)

	first, err := store.StagingDir(fp)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(first, "artifact"), []byte("one"), 0o644))
	require.NoError(t, store.Commit(fp, first))

	second, err := store.StagingDir(fp)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(second, "artifact"), []byte("two"), 0o644))
	require.NoError(t, store.Commit(fp, second))

	entry := store.Lookup(fp)
	require.True(t, entry.Valid)
	data, err := os.ReadFile(filepath.Join(entry.Dir, "artifact"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(data), "committed entry must win")

	_, err = os.Stat(second)
	assert.True(t, os.IsNotExist(err), "losing staging dir must be cleaned up")
}

func TestStore_CapturePathDeterministic(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	assert.Equal(t, store.CapturePath(fp), store.CapturePath(fp))
	assert.NotEqual(t, store.CapturePath(fp), store.CapturePath("other"))
}

func TestStore_Prune(t *testing.T) {
	t.Parallel()

	store := newStore(t)

	staging, err := store.StagingDir(fp)
	require.NoError(t, err)
	require.NoError(t, store.Commit(fp, staging))
	require.NoError(t, os.WriteFile(store.CapturePath(fp), []byte("out"), 0o644))

	// Fresh entries survive a prune.
	removed, err := store.Prune(time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.True(t, store.Lookup(fp).Valid)

	// Age the marker past the cutoff.
	marker := filepath.Join(store.Path(fp), domain.MarkerFileName)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(marker, old, old))

	removed, err = store.Prune(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.False(t, store.Lookup(fp).Valid)

	_, err = os.Stat(store.CapturePath(fp))
	assert.True(t, os.IsNotExist(err))
}
