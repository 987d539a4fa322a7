package ports

import "go.trai.ch/bob/internal/core/domain"

// ConfigLoader loads the build manifest. Generators deciding what
// tasks to create live behind this boundary; the engine only ever sees
// the resulting task descriptors.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the manifest from the given working directory.
	Load(cwd string) (*domain.Manifest, error)
}
