package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clonefuse/clonefuse/domain"
)

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), ".clonefuse.yaml", `
weights:
  structural: 0.25
  semantic: 0.55
  dynamic: 0.2
filtering:
  min_score: 0.3
output:
  format: yaml
  sort_by: location
propagation:
  score_threshold: 0.65
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0.25, config.Weights.Structural)
	assert.Equal(t, 0.55, config.Weights.Semantic)
	assert.Equal(t, 0.3, config.Filtering.MinScore)
	assert.Equal(t, "yaml", config.Output.Format)
	assert.Equal(t, "location", config.Output.SortBy)
	assert.Equal(t, 0.65, config.Propagation.ScoreThreshold)
}

func TestLoadConfigDelegatesToml(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), ".clonefuse.toml", `
[filtering]
max_results = 7
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, config.Filtering.MaxResults)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidValues(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), ".clonefuse.yaml", `
output:
  format: xml
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output format")
}

func TestFusionConfigLoader(t *testing.T) {
	loader := NewFusionConfigLoader()

	t.Run("defaults", func(t *testing.T) {
		req := loader.GetDefaultFusionConfig()
		require.NotNil(t, req)
		assert.NoError(t, req.Validate())
		assert.Equal(t, domain.OutputFormatText, req.OutputFormat)
	})

	t.Run("from file", func(t *testing.T) {
		path := writeConfigFile(t, t.TempDir(), ".clonefuse.yaml", `
filtering:
  min_score: 0.42
`)

		req, err := loader.LoadFusionConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 0.42, req.MinScore)
	})

	t.Run("load error wraps config code", func(t *testing.T) {
		_, err := loader.LoadFusionConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)

		var domainErr domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrCodeConfigError, domainErr.Code)
	})
}
