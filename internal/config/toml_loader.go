package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FusionTomlConfig represents the structure of .clonefuse.toml
type FusionTomlConfig struct {
	Weights     TomlWeightConfig      `toml:"weights"`
	Thresholds  TomlThresholdConfig   `toml:"thresholds"`
	Filtering   TomlFilteringConfig   `toml:"filtering"`
	Input       TomlInputConfig       `toml:"input"`
	Output      TomlOutputConfig      `toml:"output"`
	Propagation TomlPropagationConfig `toml:"propagation"`
}

// Pointer fields distinguish "unset" from legitimate zero values.

type TomlWeightConfig struct {
	Structural *float64 `toml:"structural"`
	Semantic   *float64 `toml:"semantic"`
	Dynamic    *float64 `toml:"dynamic"`
}

type TomlThresholdConfig struct {
	Type1Threshold    float64 `toml:"type1_threshold"`
	Type2Threshold    float64 `toml:"type2_threshold"`
	Type3Threshold    float64 `toml:"type3_threshold"`
	Type4Threshold    float64 `toml:"type4_threshold"`
	SyntacticOverride float64 `toml:"syntactic_override"`
	SemanticOverride  float64 `toml:"semantic_override"`
}

type TomlFilteringConfig struct {
	MinScore   *float64 `toml:"min_score"`
	MaxResults int      `toml:"max_results"`
}

type TomlInputConfig struct {
	Patterns        []string `toml:"patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
}

type TomlOutputConfig struct {
	Format      string `toml:"format"`
	ShowDetails *bool  `toml:"show_details"`
	SortBy      string `toml:"sort_by"`
}

type TomlPropagationConfig struct {
	ScoreThreshold *float64 `toml:"score_threshold"`
	MergeResults   *bool    `toml:"merge_results"`
}

// PyprojectToml represents the structure of pyproject.toml
type PyprojectToml struct {
	Tool ToolConfig `toml:"tool"`
}

// ToolConfig represents the [tool] section
type ToolConfig struct {
	Clonefuse FusionTomlConfig `toml:"clonefuse"`
}

// LoadTomlConfig loads fusion configuration from a TOML file. A file
// named pyproject.toml is read through its [tool.clonefuse] section;
// anything else is treated as a dedicated .clonefuse.toml.
func LoadTomlConfig(configPath string) (*FusionConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var tomlConfig FusionTomlConfig
	if filepath.Base(configPath) == "pyproject.toml" {
		var pyproject PyprojectToml
		if err := toml.Unmarshal(data, &pyproject); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
		}
		tomlConfig = pyproject.Tool.Clonefuse
	} else {
		if err := toml.Unmarshal(data, &tomlConfig); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
		}
	}

	config := DefaultFusionConfig()
	mergeTomlConfig(config, &tomlConfig)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// FindTomlConfig walks up the directory tree from startDir looking for
// .clonefuse.toml first, then pyproject.toml
func FindTomlConfig(startDir string) (string, error) {
	for _, name := range []string{".clonefuse.toml", "pyproject.toml"} {
		dir := startDir
		for {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath, nil
			}

			parent := filepath.Dir(dir)
			if parent == dir {
				// Reached root directory
				break
			}
			dir = parent
		}
	}

	return "", os.ErrNotExist
}

// mergeTomlConfig merges TOML settings into defaults. Pointer fields
// only override when explicitly set; plain numeric fields override when
// positive.
func mergeTomlConfig(defaults *FusionConfig, tomlConfig *FusionTomlConfig) {
	// Weights (zero is a valid weight, so pointers are required)
	if tomlConfig.Weights.Structural != nil {
		defaults.Weights.Structural = *tomlConfig.Weights.Structural
	}
	if tomlConfig.Weights.Semantic != nil {
		defaults.Weights.Semantic = *tomlConfig.Weights.Semantic
	}
	if tomlConfig.Weights.Dynamic != nil {
		defaults.Weights.Dynamic = *tomlConfig.Weights.Dynamic
	}

	// Thresholds
	if tomlConfig.Thresholds.Type1Threshold > 0 {
		defaults.Thresholds.Type1Threshold = tomlConfig.Thresholds.Type1Threshold
	}
	if tomlConfig.Thresholds.Type2Threshold > 0 {
		defaults.Thresholds.Type2Threshold = tomlConfig.Thresholds.Type2Threshold
	}
	if tomlConfig.Thresholds.Type3Threshold > 0 {
		defaults.Thresholds.Type3Threshold = tomlConfig.Thresholds.Type3Threshold
	}
	if tomlConfig.Thresholds.Type4Threshold > 0 {
		defaults.Thresholds.Type4Threshold = tomlConfig.Thresholds.Type4Threshold
	}
	if tomlConfig.Thresholds.SyntacticOverride > 0 {
		defaults.Thresholds.SyntacticOverride = tomlConfig.Thresholds.SyntacticOverride
	}
	if tomlConfig.Thresholds.SemanticOverride > 0 {
		defaults.Thresholds.SemanticOverride = tomlConfig.Thresholds.SemanticOverride
	}

	// Filtering
	if tomlConfig.Filtering.MinScore != nil {
		defaults.Filtering.MinScore = *tomlConfig.Filtering.MinScore
	}
	if tomlConfig.Filtering.MaxResults > 0 {
		defaults.Filtering.MaxResults = tomlConfig.Filtering.MaxResults
	}

	// Input
	if len(tomlConfig.Input.Patterns) > 0 {
		defaults.Input.Patterns = tomlConfig.Input.Patterns
	}
	if len(tomlConfig.Input.ExcludePatterns) > 0 {
		defaults.Input.ExcludePatterns = tomlConfig.Input.ExcludePatterns
	}

	// Output
	if tomlConfig.Output.Format != "" {
		defaults.Output.Format = tomlConfig.Output.Format
	}
	if tomlConfig.Output.SortBy != "" {
		defaults.Output.SortBy = tomlConfig.Output.SortBy
	}
	if tomlConfig.Output.ShowDetails != nil {
		defaults.Output.ShowDetails = *tomlConfig.Output.ShowDetails
	}

	// Propagation
	if tomlConfig.Propagation.ScoreThreshold != nil {
		defaults.Propagation.ScoreThreshold = *tomlConfig.Propagation.ScoreThreshold
	}
	if tomlConfig.Propagation.MergeResults != nil {
		defaults.Propagation.MergeResults = *tomlConfig.Propagation.MergeResults
	}
}
