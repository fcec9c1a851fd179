package watcher

import (
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// HashCache remembers the last observed content hash per watched file
// so saves that leave the content untouched do not retrigger a run.
type HashCache struct {
	mu     sync.Mutex
	hashes map[string]uint64
}

// NewHashCache creates an empty hash cache.
func NewHashCache() *HashCache {
	return &HashCache{hashes: make(map[string]uint64)}
}

// Prime records the current content hash of path without reporting a
// change. A file that cannot be read is recorded as absent.
func (h *HashCache) Prime(path string) {
	sum := hashFile(path)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.hashes[path] = sum
}

// Changed rehashes path and reports whether its content differs from
// the last observation. A path never seen before counts as changed.
func (h *HashCache) Changed(path string) bool {
	sum := hashFile(path)

	h.mu.Lock()
	defer h.mu.Unlock()

	prev, seen := h.hashes[path]
	h.hashes[path] = sum
	if !seen {
		return true
	}
	return prev != sum
}

// hashFile hashes the file content. Unreadable files, including files
// that were just deleted, hash to 0.
func hashFile(path string) uint64 {
	//nolint:gosec // Watched paths come from the invoking user
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}
