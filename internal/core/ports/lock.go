package ports

import "go.trai.ch/kiln/internal/core/domain"

// BuildLocker serializes builds for the same fingerprint across
// processes sharing a cache root.
//
// TryAcquire never blocks: it returns false immediately on contention.
// Callers must treat contention as fatal for the current run rather
// than retrying, since a waiting caller cannot distinguish a live
// build from a stale lock left by a crashed process.
//
//go:generate go run go.uber.org/mock/mockgen -source=lock.go -destination=mocks/mock_lock.go -package=mocks
type BuildLocker interface {
	// TryAcquire attempts to take the exclusive build lock for a
	// fingerprint. It returns false, nil on contention.
	TryAcquire(fp domain.Fingerprint) (bool, error)

	// Release releases a previously acquired lock. It is idempotent and
	// a no-op when the lock was never acquired by this locker.
	Release(fp domain.Fingerprint) error
}
