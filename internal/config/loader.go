package config

import (
	"github.com/clonefuse/clonefuse/domain"
)

// FusionConfigLoader implements the domain.FusionConfigurationLoader interface
type FusionConfigLoader struct{}

// NewFusionConfigLoader creates a new fusion configuration loader
func NewFusionConfigLoader() *FusionConfigLoader {
	return &FusionConfigLoader{}
}

// LoadFusionConfig loads fusion configuration from file. An empty path
// triggers the default search (current directory, then home).
func (l *FusionConfigLoader) LoadFusionConfig(configPath string) (*domain.FusionRequest, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, domain.NewConfigError("failed to load fusion configuration", err)
	}
	return config.ToFusionRequest(), nil
}

// GetDefaultFusionConfig returns default fusion configuration
func (l *FusionConfigLoader) GetDefaultFusionConfig() *domain.FusionRequest {
	return DefaultFusionConfig().ToFusionRequest()
}
