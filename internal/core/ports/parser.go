package ports

import "go.trai.ch/kiln/internal/core/domain"

// DocumentParser turns a notebook document into an ordered cell
// sequence. Parsing also performs the controlled pre-fingerprint
// content rewrite (line-ending normalization), so the returned cells
// are exactly what the fingerprint is computed over.
//
//go:generate go run go.uber.org/mock/mockgen -source=parser.go -destination=mocks/mock_parser.go -package=mocks
type DocumentParser interface {
	// Parse reads and parses the notebook at path.
	Parse(path string) (*domain.Notebook, error)

	// ParseBytes parses an in-memory notebook document. The path is
	// recorded on the notebook for diagnostics only.
	ParseBytes(path string, data []byte) (*domain.Notebook, error)
}
