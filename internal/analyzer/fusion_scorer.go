package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/clonefuse/clonefuse/domain"
	"github.com/clonefuse/clonefuse/internal/constants"
)

// FusionScorer combines structural similarity, semantic similarity, and the
// dynamic anomaly flag into one calibrated score in [0, 1], with override
// rules so that a strong single signal is not diluted by the weighted
// average. Every scored pair gets a component breakdown and a human-readable
// explanation so a caller can reconstruct why the score was produced
// without re-running the computation.
//
// The scorer never fails on malformed numeric input: out-of-range scalars
// are clamped and empty code strings degrade to an unknown classification.
type FusionScorer struct {
	weights    domain.FusionWeights
	thresholds domain.FusionThresholds
	classifier *CloneClassifier
}

// NewFusionScorer creates a fusion scorer with the given weights and
// thresholds. Weight validity (summing to 1.0) is a configuration-time
// concern and is not re-checked here.
func NewFusionScorer(weights domain.FusionWeights, thresholds domain.FusionThresholds) *FusionScorer {
	return &FusionScorer{
		weights:    weights,
		thresholds: thresholds,
		classifier: NewCloneClassifier(&CloneClassifierConfig{
			Type1Threshold: thresholds.Type1Threshold,
			Type2Threshold: thresholds.Type2Threshold,
			Type3Threshold: thresholds.Type3Threshold,
			Type4Threshold: thresholds.Type4Threshold,
		}),
	}
}

// NewDefaultFusionScorer creates a fusion scorer with default weights and thresholds
func NewDefaultFusionScorer() *FusionScorer {
	return NewFusionScorer(domain.DefaultFusionWeights(), domain.DefaultFusionThresholds())
}

// Score fuses the signals for one pair and returns the score, the component
// breakdown, and the explanation string.
func (s *FusionScorer) Score(structSim, semanticSim float64, dynamicAnomaly bool, codeA, codeB string) (float64, *domain.FusionComponents, string) {
	structSim = Clamp01(structSim)
	semanticSim = Clamp01(semanticSim)

	// Syntactic metrics and classification need source text on both sides
	var lineSim, tokenSim float64
	var classification domain.CloneClassification
	if codeA != "" && codeB != "" {
		lineSim, tokenSim = ComputeSimilarityMetrics(codeA, codeB)
		classification = s.classifier.Classify(lineSim, tokenSim, semanticSim)
	} else {
		classification = domain.CloneClassification{Type: domain.UnknownClone, Confidence: 0.0}
	}

	dynamicScore := 0.0
	if dynamicAnomaly {
		dynamicScore = 1.0
	}

	baseScore := s.weights.Structural*structSim +
		s.weights.Semantic*semanticSim +
		s.weights.Dynamic*dynamicScore

	// A strong single signal must not be suppressed by a low weighted
	// average: strong syntax wins outright, strong semantics covers
	// Type-4 clones that share no syntax.
	syntacticSim := math.Max(lineSim, tokenSim)
	score := baseScore
	switch {
	case syntacticSim > s.thresholds.SyntacticOverride:
		score = math.Max(baseScore, syntacticSim)
	case semanticSim > s.thresholds.SemanticOverride:
		score = math.Max(baseScore, semanticSim)
	}
	score = Clamp01(score)

	components := &domain.FusionComponents{
		Structural:         structSim,
		Semantic:           semanticSim,
		Dynamic:            dynamicAnomaly,
		LineSimilarity:     lineSim,
		TokenSimilarity:    tokenSim,
		CloneType:          classification.Type.String(),
		WeightedStructural: s.weights.Structural * structSim,
		WeightedSemantic:   s.weights.Semantic * semanticSim,
		WeightedDynamic:    s.weights.Dynamic * dynamicScore,
	}

	explanation := s.buildExplanation(classification.Type, syntacticSim, semanticSim, dynamicAnomaly)

	return score, components, explanation
}

// ScorePair scores one candidate pair and assembles the full report
func (s *FusionScorer) ScorePair(pair *domain.CandidatePair) *domain.FusionReport {
	if pair == nil || pair.A == nil || pair.B == nil {
		return nil
	}

	structSim := StructuralSimilarity(pair.A.Features, pair.B.Features)
	semanticSim := Clamp01(pair.SemanticSim)

	score, components, explanation := s.Score(structSim, semanticSim, pair.DynamicAnomaly, pair.A.Code, pair.B.Code)

	classification := domain.CloneClassification{Type: domain.UnknownClone, Confidence: 0.0}
	if pair.A.Code != "" && pair.B.Code != "" {
		classification = s.classifier.Classify(components.LineSimilarity, components.TokenSimilarity, semanticSim)
	}

	return &domain.FusionReport{
		FileA:          pair.A.File,
		FuncA:          pair.A.Function,
		FileB:          pair.B.File,
		FuncB:          pair.B.Function,
		StructSim:      structSim,
		SemanticSim:    semanticSim,
		LineSim:        components.LineSimilarity,
		TokenSim:       components.TokenSimilarity,
		CloneType:      classification.Type,
		Confidence:     classification.Confidence,
		DynamicAnomaly: pair.DynamicAnomaly,
		FusionScore:    score,
		Components:     components,
		Explanation:    explanation,
	}
}

// buildExplanation builds the ordered, human-readable reason list. The
// clone category always comes first; a single dominant match reason
// follows; the dynamic anomaly note is appended last.
func (s *FusionScorer) buildExplanation(cloneType domain.CloneType, syntacticSim, semanticSim float64, dynamicAnomaly bool) string {
	reasons := []string{fmt.Sprintf("Classified as %s", cloneType.String())}

	if syntacticSim > constants.ExplanationHighMatchThreshold {
		reasons = append(reasons, fmt.Sprintf("High syntactic match (%.2f)", syntacticSim))
	} else if semanticSim > constants.ExplanationHighMatchThreshold {
		reasons = append(reasons, fmt.Sprintf("High semantic match (%.2f)", semanticSim))
	}

	if dynamicAnomaly {
		reasons = append(reasons, "Dynamic execution anomaly detected")
	}

	return "Clone detected: " + strings.Join(reasons, ", ")
}
