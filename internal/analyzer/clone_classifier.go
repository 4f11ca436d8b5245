package analyzer

import (
	"math"

	"github.com/clonefuse/clonefuse/domain"
	"github.com/clonefuse/clonefuse/internal/constants"
)

// CloneClassifier maps the syntactic and semantic similarity signals of a
// pair to one of the five ordinal clone categories with a confidence value.
// Classification is a pure function of its inputs; the category is always
// recomputed, never stored independently.
type CloneClassifier struct {
	type1Threshold float64
	type2Threshold float64
	type3Threshold float64
	type4Threshold float64
}

// CloneClassifierConfig holds configuration for the clone classifier
type CloneClassifierConfig struct {
	Type1Threshold float64
	Type2Threshold float64
	Type3Threshold float64
	Type4Threshold float64
}

// DefaultCloneClassifierConfig returns the standard threshold ladder
func DefaultCloneClassifierConfig() *CloneClassifierConfig {
	return &CloneClassifierConfig{
		Type1Threshold: constants.DefaultType1CloneThreshold,
		Type2Threshold: constants.DefaultType2CloneThreshold,
		Type3Threshold: constants.DefaultType3CloneThreshold,
		Type4Threshold: constants.DefaultType4SemanticThreshold,
	}
}

// NewCloneClassifier creates a new clone classifier. A nil config selects
// the default thresholds.
func NewCloneClassifier(config *CloneClassifierConfig) *CloneClassifier {
	if config == nil {
		config = DefaultCloneClassifierConfig()
	}
	return &CloneClassifier{
		type1Threshold: config.Type1Threshold,
		type2Threshold: config.Type2Threshold,
		type3Threshold: config.Type3Threshold,
		type4Threshold: config.Type4Threshold,
	}
}

// Classify determines the clone category from line, token, and semantic
// similarity. The ladder runs on syntactic similarity (the max of line and
// token similarity) top-down, first match wins; semantic similarity is the
// fallback tier for logic-equivalent but textually different code.
func (c *CloneClassifier) Classify(lineSim, tokenSim, semanticSim float64) domain.CloneClassification {
	lineSim = Clamp01(lineSim)
	tokenSim = Clamp01(tokenSim)
	semanticSim = Clamp01(semanticSim)

	syntacticSim := math.Max(lineSim, tokenSim)

	switch {
	case syntacticSim >= c.type1Threshold:
		return domain.CloneClassification{Type: domain.Type1Clone, Confidence: constants.Type1Confidence}
	case syntacticSim >= c.type2Threshold:
		return domain.CloneClassification{Type: domain.Type2Clone, Confidence: constants.Type2Confidence}
	case syntacticSim >= c.type3Threshold:
		return domain.CloneClassification{Type: domain.Type3Clone, Confidence: constants.Type3Confidence}
	case semanticSim >= c.type4Threshold:
		return domain.CloneClassification{Type: domain.Type4Clone, Confidence: semanticSim}
	default:
		return domain.CloneClassification{Type: domain.NonClone, Confidence: 0.0}
	}
}
