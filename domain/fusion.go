package domain

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/clonefuse/clonefuse/internal/constants"
)

// CloneType represents different types of code clones
type CloneType int

const (
	// NonClone - Pair below every clone threshold
	NonClone CloneType = iota
	// Type1Clone - Identical or near-identical code fragments
	Type1Clone
	// Type2Clone - Same structure with renamed variables/identifiers
	Type2Clone
	// Type3Clone - Similar structure with added/removed statements
	Type3Clone
	// Type4Clone - Low syntactic match but high semantic match
	Type4Clone
)

// UnknownClone marks a pair that was scored without source text available.
const UnknownClone CloneType = -1

// String returns string representation of CloneType
func (ct CloneType) String() string {
	switch ct {
	case Type1Clone:
		return "Type 1 (Exact)"
	case Type2Clone:
		return "Type 2 (Renamed)"
	case Type3Clone:
		return "Type 3 (Modified)"
	case Type4Clone:
		return "Type 4 (Semantic)"
	case NonClone:
		return "Non-Clone"
	default:
		return "Unknown (No Code)"
	}
}

// IsClone reports whether the type is one of the four clone tiers.
func (ct CloneType) IsClone() bool {
	return ct >= Type1Clone && ct <= Type4Clone
}

// UnitKey identifies a code unit by its file path and function/method name.
// It is the indexing key for both bug attachment and clone propagation.
type UnitKey struct {
	File     string `json:"file" yaml:"file"`
	Function string `json:"function" yaml:"function"`
}

// String returns string representation of UnitKey
func (k UnitKey) String() string {
	return fmt.Sprintf("%s:%s", k.File, k.Function)
}

// CodeUnit represents one extracted function, method, or module body.
// Units are created by the extraction collaborator and are immutable for
// the duration of an analysis run; the engine references them, never copies.
type CodeUnit struct {
	File     string             `json:"file" yaml:"file"`
	Function string             `json:"func_name" yaml:"func_name"`
	Code     string             `json:"code,omitempty" yaml:"code,omitempty"`
	Features map[string]float64 `json:"features,omitempty" yaml:"features,omitempty"`
}

// Key returns the identity key of this unit
func (u *CodeUnit) Key() UnitKey {
	return UnitKey{File: u.File, Function: u.Function}
}

// String returns string representation of CodeUnit
func (u *CodeUnit) String() string {
	return fmt.Sprintf("%s:%s", u.File, u.Function)
}

// SimilarityMetrics holds the four independent similarity signals for one
// candidate pair. All values are in [0, 1].
type SimilarityMetrics struct {
	LineSim       float64 `json:"line_sim" yaml:"line_sim"`
	TokenSim      float64 `json:"token_sim" yaml:"token_sim"`
	StructuralSim float64 `json:"struct_sim" yaml:"struct_sim"`
	SemanticSim   float64 `json:"semantic_sim" yaml:"semantic_sim"`
}

// Syntactic returns the syntactic similarity, defined as the maximum of
// line and token similarity.
func (m SimilarityMetrics) Syntactic() float64 {
	return math.Max(m.LineSim, m.TokenSim)
}

// CloneClassification is the ordinal clone category plus a confidence value.
// It is always derived from SimilarityMetrics, never stored independently.
type CloneClassification struct {
	Type       CloneType `json:"type" yaml:"type"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
}

// FusionComponents is the auditability breakdown of one fusion score:
// every raw and weighted term that contributed, plus the clone category.
// Field names are part of the report wire format and must not change.
type FusionComponents struct {
	Structural         float64 `json:"structural" yaml:"structural"`
	Semantic           float64 `json:"semantic" yaml:"semantic"`
	Dynamic            bool    `json:"dynamic" yaml:"dynamic"`
	LineSimilarity     float64 `json:"line_similarity" yaml:"line_similarity"`
	TokenSimilarity    float64 `json:"token_similarity" yaml:"token_similarity"`
	CloneType          string  `json:"clone_type" yaml:"clone_type"`
	WeightedStructural float64 `json:"weighted_structural" yaml:"weighted_structural"`
	WeightedSemantic   float64 `json:"weighted_semantic" yaml:"weighted_semantic"`
	WeightedDynamic    float64 `json:"weighted_dynamic" yaml:"weighted_dynamic"`
}

// FusionReport is the per-pair result of fusion scoring. Reports are
// created once per candidate pair and never mutated afterwards.
type FusionReport struct {
	FileA string `json:"file_a" yaml:"file_a"`
	FuncA string `json:"func_a" yaml:"func_a"`
	FileB string `json:"file_b" yaml:"file_b"`
	FuncB string `json:"func_b" yaml:"func_b"`

	StructSim   float64 `json:"struct_sim" yaml:"struct_sim"`
	SemanticSim float64 `json:"semantic_sim" yaml:"semantic_sim"`
	LineSim     float64 `json:"line_sim" yaml:"line_sim"`
	TokenSim    float64 `json:"token_sim" yaml:"token_sim"`

	CloneType      CloneType `json:"clone_type" yaml:"clone_type"`
	Confidence     float64   `json:"confidence" yaml:"confidence"`
	DynamicAnomaly bool      `json:"dynamic_anomaly" yaml:"dynamic_anomaly"`

	FusionScore float64           `json:"fusion_score" yaml:"fusion_score"`
	Components  *FusionComponents `json:"score_components" yaml:"score_components"`
	Explanation string            `json:"explanation" yaml:"explanation"`
}

// KeyA returns the identity key of side A
func (r *FusionReport) KeyA() UnitKey {
	return UnitKey{File: r.FileA, Function: r.FuncA}
}

// KeyB returns the identity key of side B
func (r *FusionReport) KeyB() UnitKey {
	return UnitKey{File: r.FileB, Function: r.FuncB}
}

// String returns string representation of FusionReport
func (r *FusionReport) String() string {
	return fmt.Sprintf("%s clone: %s:%s <-> %s:%s (fusion: %.3f)",
		r.CloneType.String(), r.FileA, r.FuncA, r.FileB, r.FuncB, r.FusionScore)
}

// CandidatePair is one pair of code units to be fused, together with the
// collaborator-supplied signals for that pair.
type CandidatePair struct {
	A *CodeUnit `json:"a" yaml:"a"`
	B *CodeUnit `json:"b" yaml:"b"`

	// SemanticSim is supplied by the embedding collaborator (or its
	// token-based fallback); the engine is agnostic to the source.
	SemanticSim float64 `json:"score" yaml:"score"`

	// DynamicAnomaly is true if randomized execution of either side
	// produced a non-zero exit or exception in any trial.
	DynamicAnomaly bool `json:"dynamic_anomaly" yaml:"dynamic_anomaly"`
}

// FusionWeights holds the base-score weights for the three fused signals.
// The weights must sum to 1.0; this is validated at configuration time,
// not at scoring time.
type FusionWeights struct {
	Structural float64 `json:"structural" yaml:"structural"`
	Semantic   float64 `json:"semantic" yaml:"semantic"`
	Dynamic    float64 `json:"dynamic" yaml:"dynamic"`
}

// Validate validates the fusion weights
func (w FusionWeights) Validate() error {
	for _, v := range []float64{w.Structural, w.Semantic, w.Dynamic} {
		if v < 0.0 || v > 1.0 {
			return NewValidationError("fusion weights must be between 0.0 and 1.0")
		}
	}
	if sum := w.Structural + w.Semantic + w.Dynamic; math.Abs(sum-1.0) > 1e-9 {
		return NewValidationError(fmt.Sprintf("fusion weights must sum to 1.0 (got %.4f)", sum))
	}
	return nil
}

// FusionThresholds holds every policy threshold used by classification,
// fusion overrides, and propagation. Values are policy, not mechanism:
// they are configurable so that boundary behavior can be probed precisely.
type FusionThresholds struct {
	// Classification ladder on syntactic similarity
	Type1Threshold float64 `json:"type1_threshold" yaml:"type1_threshold"`
	Type2Threshold float64 `json:"type2_threshold" yaml:"type2_threshold"`
	Type3Threshold float64 `json:"type3_threshold" yaml:"type3_threshold"`
	// Semantic fallback for Type-4
	Type4Threshold float64 `json:"type4_threshold" yaml:"type4_threshold"`

	// Score override rules
	SyntacticOverride float64 `json:"syntactic_override" yaml:"syntactic_override"`
	SemanticOverride  float64 `json:"semantic_override" yaml:"semantic_override"`

	// Minimum fusion score for bug propagation
	PropagationThreshold float64 `json:"propagation_threshold" yaml:"propagation_threshold"`
}

// Validate validates the threshold set
func (t FusionThresholds) Validate() error {
	check := func(name string, v float64) error {
		if v < 0.0 || v > 1.0 {
			return NewValidationError(fmt.Sprintf("%s must be between 0.0 and 1.0", name))
		}
		return nil
	}
	if err := check("type1_threshold", t.Type1Threshold); err != nil {
		return err
	}
	if err := check("type2_threshold", t.Type2Threshold); err != nil {
		return err
	}
	if err := check("type3_threshold", t.Type3Threshold); err != nil {
		return err
	}
	if err := check("type4_threshold", t.Type4Threshold); err != nil {
		return err
	}
	if err := check("syntactic_override", t.SyntacticOverride); err != nil {
		return err
	}
	if err := check("semantic_override", t.SemanticOverride); err != nil {
		return err
	}
	if err := check("propagation_threshold", t.PropagationThreshold); err != nil {
		return err
	}

	// The ladder is evaluated top-down; enforce strict ordering
	if t.Type1Threshold <= t.Type2Threshold {
		return NewValidationError("type1_threshold should be > type2_threshold")
	}
	if t.Type2Threshold <= t.Type3Threshold {
		return NewValidationError("type2_threshold should be > type3_threshold")
	}
	return nil
}

// FusionRequest represents a request for fusion scoring over candidate pairs
type FusionRequest struct {
	// Input
	Pairs []*CandidatePair `json:"-"`

	// Bundle selection (used when pairs are loaded from files)
	InputPatterns   []string `json:"input_patterns"`
	ExcludePatterns []string `json:"exclude_patterns"`

	// Scoring configuration
	Weights    FusionWeights    `json:"weights"`
	Thresholds FusionThresholds `json:"thresholds"`

	// Filtering
	MinScore   float64 `json:"min_score"`
	MaxResults int     `json:"max_results"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	OutputPath   string       `json:"output_path"`
	SortBy       SortCriteria `json:"sort_by"`
	ShowDetails  bool         `json:"show_details"`
	NoOpen       bool         `json:"no_open"`

	// Configuration file
	ConfigPath string `json:"config_path"`
}

// Validate validates a fusion request
func (req *FusionRequest) Validate() error {
	if err := req.Weights.Validate(); err != nil {
		return err
	}
	if err := req.Thresholds.Validate(); err != nil {
		return err
	}
	if req.MinScore < 0.0 || req.MinScore > 1.0 {
		return NewValidationError("min_score must be between 0.0 and 1.0")
	}
	if req.MaxResults < 0 {
		return NewValidationError("max_results cannot be negative")
	}
	return nil
}

// FusionStatistics provides statistics about fusion scoring results
type FusionStatistics struct {
	TotalPairs     int            `json:"total_pairs" yaml:"total_pairs"`
	ClonePairs     int            `json:"clone_pairs" yaml:"clone_pairs"`
	PairsByType    map[string]int `json:"pairs_by_type" yaml:"pairs_by_type"`
	AverageScore   float64        `json:"average_fusion_score" yaml:"average_fusion_score"`
	MaxScore       float64        `json:"max_fusion_score" yaml:"max_fusion_score"`
	HighConfidence int            `json:"high_confidence" yaml:"high_confidence"`
}

// NewFusionStatistics creates a new fusion statistics instance
func NewFusionStatistics() *FusionStatistics {
	return &FusionStatistics{
		PairsByType: make(map[string]int),
	}
}

// FusionResponse represents the response from fusion scoring
type FusionResponse struct {
	Reports    []*FusionReport   `json:"reports" yaml:"reports"`
	Statistics *FusionStatistics `json:"statistics" yaml:"statistics"`
	Duration   int64             `json:"duration_ms" yaml:"duration_ms"`
}

// FusionService defines the interface for fusion scoring services
type FusionService interface {
	// FusePairs scores every candidate pair and returns reports sorted
	// descending by fusion score
	FusePairs(ctx context.Context, req *FusionRequest) (*FusionResponse, error)

	// ScorePair scores a single candidate pair
	ScorePair(pair *CandidatePair, req *FusionRequest) (*FusionReport, error)
}

// FusionOutputFormatter defines the interface for formatting fusion results
type FusionOutputFormatter interface {
	// FormatFusionResponse formats a fusion response according to the specified format
	FormatFusionResponse(response *FusionResponse, format OutputFormat, writer io.Writer) error
}

// FusionConfigurationLoader defines the interface for loading fusion configuration
type FusionConfigurationLoader interface {
	// LoadFusionConfig loads fusion configuration from file
	LoadFusionConfig(configPath string) (*FusionRequest, error)

	// GetDefaultFusionConfig returns default fusion configuration
	GetDefaultFusionConfig() *FusionRequest
}

// DefaultFusionWeights returns the default base-score weights
func DefaultFusionWeights() FusionWeights {
	return FusionWeights{
		Structural: constants.DefaultStructuralWeight,
		Semantic:   constants.DefaultSemanticWeight,
		Dynamic:    constants.DefaultDynamicWeight,
	}
}

// DefaultFusionThresholds returns the default threshold set
func DefaultFusionThresholds() FusionThresholds {
	return FusionThresholds{
		Type1Threshold:       constants.DefaultType1CloneThreshold,
		Type2Threshold:       constants.DefaultType2CloneThreshold,
		Type3Threshold:       constants.DefaultType3CloneThreshold,
		Type4Threshold:       constants.DefaultType4SemanticThreshold,
		SyntacticOverride:    constants.DefaultSyntacticOverrideThreshold,
		SemanticOverride:     constants.DefaultSemanticOverrideThreshold,
		PropagationThreshold: constants.DefaultPropagationThreshold,
	}
}

// DefaultFusionRequest returns a default fusion request
func DefaultFusionRequest() *FusionRequest {
	return &FusionRequest{
		Weights:      DefaultFusionWeights(),
		Thresholds:   DefaultFusionThresholds(),
		MinScore:     0.0,
		OutputFormat: OutputFormatText,
		SortBy:       SortByScore,
		ShowDetails:  false,
	}
}
