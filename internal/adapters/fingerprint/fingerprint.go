// Package fingerprint computes content-addressed cache keys for
// notebooks.
package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.Fingerprinter = (*Generator)(nil)

// Generator implements ports.Fingerprinter with a SHA-256 digest over
// the full ordered cell content. Every byte of every cell participates;
// cell kind and content length are framed into the digest so that
// reordering, merging or splitting cells always changes the key.
type Generator struct{}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Fingerprint computes the cache key for an ordered cell sequence.
// It is pure: no time, pid or filesystem input. The empty sequence has
// a stable, valid fingerprint.
func (g *Generator) Fingerprint(cells []domain.Cell) domain.Fingerprint {
	h := sha256.New()

	var frame [binary.MaxVarintLen64]byte
	for _, cell := range cells {
		_, _ = h.Write([]byte(cell.Kind))
		_, _ = h.Write([]byte{0})

		n := binary.PutUvarint(frame[:], uint64(len(cell.Content)))
		_, _ = h.Write(frame[:n])
		_, _ = h.Write([]byte(cell.Content))
	}

	return domain.Fingerprint(hex.EncodeToString(h.Sum(nil)))
}
