package ports

import "go.trai.ch/mason/internal/core/domain"

// ConfigLoader loads the project settings file.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the settings from the given working directory and returns
	// the resolved project configuration.
	Load(cwd string) (*domain.ProjectConfig, error)

	// DiscoverRoot walks up from cwd to find the project root, the
	// directory containing mason.yaml.
	DiscoverRoot(cwd string) (string, error)
}
