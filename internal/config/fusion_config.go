package config

import (
	"fmt"
	"io"

	"github.com/clonefuse/clonefuse/domain"
	"github.com/clonefuse/clonefuse/internal/constants"
)

// FusionConfig represents the unified fusion analysis configuration
type FusionConfig struct {
	// Weights Configuration
	Weights WeightConfig `mapstructure:"weights" yaml:"weights" json:"weights"`

	// Thresholds Configuration
	Thresholds ThresholdConfig `mapstructure:"thresholds" yaml:"thresholds" json:"thresholds"`

	// Filtering Configuration
	Filtering FilteringConfig `mapstructure:"filtering" yaml:"filtering" json:"filtering"`

	// Input Configuration
	Input InputConfig `mapstructure:"input" yaml:"input" json:"input"`

	// Output Configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Propagation Configuration
	Propagation PropagationConfig `mapstructure:"propagation" yaml:"propagation" json:"propagation"`
}

// WeightConfig holds the base-score component weights
type WeightConfig struct {
	Structural float64 `mapstructure:"structural" yaml:"structural" json:"structural"`
	Semantic   float64 `mapstructure:"semantic" yaml:"semantic" json:"semantic"`
	Dynamic    float64 `mapstructure:"dynamic" yaml:"dynamic" json:"dynamic"`
}

// ThresholdConfig holds similarity thresholds for clone classification
// and score overrides
type ThresholdConfig struct {
	// Type-specific thresholds (these determine clone classification)
	Type1Threshold float64 `mapstructure:"type1_threshold" yaml:"type1_threshold" json:"type1_threshold"`
	Type2Threshold float64 `mapstructure:"type2_threshold" yaml:"type2_threshold" json:"type2_threshold"`
	Type3Threshold float64 `mapstructure:"type3_threshold" yaml:"type3_threshold" json:"type3_threshold"`
	Type4Threshold float64 `mapstructure:"type4_threshold" yaml:"type4_threshold" json:"type4_threshold"`

	// Override floors applied after the weighted base score
	SyntacticOverride float64 `mapstructure:"syntactic_override" yaml:"syntactic_override" json:"syntactic_override"`
	SemanticOverride  float64 `mapstructure:"semantic_override" yaml:"semantic_override" json:"semantic_override"`
}

// FilteringConfig holds filtering and selection criteria
type FilteringConfig struct {
	// Minimum fusion score for a pair to be reported
	MinScore float64 `mapstructure:"min_score" yaml:"min_score" json:"min_score"`

	// Result limiting (0 = unlimited)
	MaxResults int `mapstructure:"max_results" yaml:"max_results" json:"max_results"`
}

// InputConfig holds bundle selection configuration
type InputConfig struct {
	Patterns        []string `mapstructure:"patterns" yaml:"patterns" json:"patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" json:"exclude_patterns"`
}

// OutputConfig holds output formatting configuration
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `mapstructure:"format" yaml:"format" json:"format"`

	// ShowDetails controls whether to show the component breakdown
	ShowDetails bool `mapstructure:"show_details" yaml:"show_details" json:"show_details"`

	// SortBy specifies how to sort results: score, location, type
	SortBy string `mapstructure:"sort_by" yaml:"sort_by" json:"sort_by"`

	// Output destination (not serialized)
	Writer io.Writer `json:"-" yaml:"-" mapstructure:"-"`
}

// PropagationConfig holds bug propagation configuration
type PropagationConfig struct {
	// Minimum fusion score for a clone edge to carry bugs
	ScoreThreshold float64 `mapstructure:"score_threshold" yaml:"score_threshold" json:"score_threshold"`

	// MergeResults folds propagated bugs into the original list
	MergeResults bool `mapstructure:"merge_results" yaml:"merge_results" json:"merge_results"`
}

// DefaultFusionConfig returns a configuration with sensible defaults
func DefaultFusionConfig() *FusionConfig {
	return &FusionConfig{
		Weights: WeightConfig{
			Structural: constants.DefaultStructuralWeight,
			Semantic:   constants.DefaultSemanticWeight,
			Dynamic:    constants.DefaultDynamicWeight,
		},
		Thresholds: ThresholdConfig{
			Type1Threshold:    constants.DefaultType1CloneThreshold,
			Type2Threshold:    constants.DefaultType2CloneThreshold,
			Type3Threshold:    constants.DefaultType3CloneThreshold,
			Type4Threshold:    constants.DefaultType4SemanticThreshold,
			SyntacticOverride: constants.DefaultSyntacticOverrideThreshold,
			SemanticOverride:  constants.DefaultSemanticOverrideThreshold,
		},
		Filtering: FilteringConfig{
			MinScore:   0.0,
			MaxResults: 0,
		},
		Input: InputConfig{
			Patterns:        []string{"*.bundle.json"},
			ExcludePatterns: []string{},
		},
		Output: OutputConfig{
			Format:      "text",
			ShowDetails: false,
			SortBy:      "score",
		},
		Propagation: PropagationConfig{
			ScoreThreshold: constants.DefaultPropagationThreshold,
			MergeResults:   true,
		},
	}
}

// Validate checks the configuration values
func (c *FusionConfig) Validate() error {
	weightSum := c.Weights.Structural + c.Weights.Semantic + c.Weights.Dynamic
	if weightSum < 1.0-1e-9 || weightSum > 1.0+1e-9 {
		return fmt.Errorf("weights must sum to 1.0, got %.4f", weightSum)
	}
	for name, w := range map[string]float64{
		"weights.structural": c.Weights.Structural,
		"weights.semantic":   c.Weights.Semantic,
		"weights.dynamic":    c.Weights.Dynamic,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%s must be between 0.0 and 1.0, got %.4f", name, w)
		}
	}

	t := c.Thresholds
	for name, v := range map[string]float64{
		"thresholds.type1_threshold":    t.Type1Threshold,
		"thresholds.type2_threshold":    t.Type2Threshold,
		"thresholds.type3_threshold":    t.Type3Threshold,
		"thresholds.type4_threshold":    t.Type4Threshold,
		"thresholds.syntactic_override": t.SyntacticOverride,
		"thresholds.semantic_override":  t.SemanticOverride,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0.0 and 1.0, got %.4f", name, v)
		}
	}
	if !(t.Type1Threshold > t.Type2Threshold && t.Type2Threshold > t.Type3Threshold) {
		return fmt.Errorf("clone type thresholds must be ordered: type1 > type2 > type3")
	}

	if c.Filtering.MinScore < 0 || c.Filtering.MinScore > 1 {
		return fmt.Errorf("filtering.min_score must be between 0.0 and 1.0, got %.4f", c.Filtering.MinScore)
	}
	if c.Filtering.MaxResults < 0 {
		return fmt.Errorf("filtering.max_results cannot be negative, got %d", c.Filtering.MaxResults)
	}

	if format := domain.OutputFormat(c.Output.Format); !format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Output.Format)
	}
	if sortBy := domain.SortCriteria(c.Output.SortBy); !sortBy.IsValid() {
		return fmt.Errorf("invalid sort criteria: %s", c.Output.SortBy)
	}

	if c.Propagation.ScoreThreshold < 0 || c.Propagation.ScoreThreshold > 1 {
		return fmt.Errorf("propagation.score_threshold must be between 0.0 and 1.0, got %.4f", c.Propagation.ScoreThreshold)
	}

	return nil
}

// ToFusionRequest converts the configuration into a fusion request
func (c *FusionConfig) ToFusionRequest() *domain.FusionRequest {
	req := domain.DefaultFusionRequest()

	req.Weights = domain.FusionWeights{
		Structural: c.Weights.Structural,
		Semantic:   c.Weights.Semantic,
		Dynamic:    c.Weights.Dynamic,
	}
	req.Thresholds.Type1Threshold = c.Thresholds.Type1Threshold
	req.Thresholds.Type2Threshold = c.Thresholds.Type2Threshold
	req.Thresholds.Type3Threshold = c.Thresholds.Type3Threshold
	req.Thresholds.Type4Threshold = c.Thresholds.Type4Threshold
	req.Thresholds.SyntacticOverride = c.Thresholds.SyntacticOverride
	req.Thresholds.SemanticOverride = c.Thresholds.SemanticOverride
	req.Thresholds.PropagationThreshold = c.Propagation.ScoreThreshold

	req.MinScore = c.Filtering.MinScore
	req.MaxResults = c.Filtering.MaxResults

	req.InputPatterns = c.Input.Patterns
	req.ExcludePatterns = c.Input.ExcludePatterns

	req.OutputFormat = domain.OutputFormat(c.Output.Format)
	req.ShowDetails = c.Output.ShowDetails
	req.SortBy = domain.SortCriteria(c.Output.SortBy)
	if c.Output.Writer != nil {
		req.OutputWriter = c.Output.Writer
	}

	return req
}
