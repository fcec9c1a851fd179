// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/kiln/internal/core/domain"

// Fingerprinter computes the cache key for a notebook.
//
// Implementations must be pure and deterministic: equal cell sequences
// (content and order) yield equal fingerprints, and any content or
// order change yields a different fingerprint with overwhelming
// probability. The fingerprint of an empty sequence is a valid, stable
// value.
//
//go:generate go run go.uber.org/mock/mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	Fingerprint(cells []domain.Cell) domain.Fingerprint
}
