package ports

import "go.trai.ch/kiln/internal/core/domain"

// ConfigLoader loads the resolved runtime settings.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers and reads the configuration starting from the given
	// working directory. A missing config file is not an error; defaults
	// apply.
	Load(cwd string) (*domain.Settings, error)
}
