package ports

import "go.trai.ch/kiln/internal/core/domain"

// ProjectGenerator produces a buildable source tree from a notebook's
// code cells in the given target directory, according to the selected
// toolchain.
//
//go:generate go run go.uber.org/mock/mockgen -source=generator.go -destination=mocks/mock_generator.go -package=mocks
type ProjectGenerator interface {
	Generate(notebook *domain.Notebook, toolchain domain.Toolchain, dir string) error
}
