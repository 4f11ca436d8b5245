package analyzer

import (
	"math"
	"regexp"
	"strings"

	"github.com/clonefuse/clonefuse/internal/constants"
)

// Precompiled token pattern: maximal word runs or maximal non-word/non-space
// symbol runs, so multi-character operators (==, >=, ++) stay single tokens.
var tokenRegex = regexp.MustCompile(`\w+|[^\w\s]+`)

// Tokenize splits code into its set of unique tokens for set-based similarity.
// Empty input yields an empty set, never an error.
func Tokenize(code string) map[string]struct{} {
	tokens := make(map[string]struct{})
	if code == "" {
		return tokens
	}
	for _, tok := range tokenRegex.FindAllString(code, -1) {
		tokens[tok] = struct{}{}
	}
	return tokens
}

// lineSet builds the set of non-blank, whitespace-trimmed lines of code
func lineSet(code string) map[string]struct{} {
	lines := make(map[string]struct{})
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			lines[trimmed] = struct{}{}
		}
	}
	return lines
}

// overlapCoefficient computes |A ∩ B| / min(|A|, |B|). The overlap
// coefficient is preferred over Jaccard here: clones frequently differ in
// total size but share a dense common core, and dividing by the smaller set
// avoids penalizing one-sided padding. Either set empty scores 0.0.
func overlapCoefficient(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	intersection := 0
	for k := range small {
		if _, ok := large[k]; ok {
			intersection++
		}
	}

	return float64(intersection) / float64(len(small))
}

// ComputeSimilarityMetrics computes the line and token similarity between
// two code texts using the overlap coefficient over trimmed non-blank line
// sets and over token sets.
func ComputeSimilarityMetrics(codeA, codeB string) (lineSim, tokenSim float64) {
	lineSim = overlapCoefficient(lineSet(codeA), lineSet(codeB))
	tokenSim = overlapCoefficient(Tokenize(codeA), Tokenize(codeB))
	return lineSim, tokenSim
}

// StructuralSimilarity compares two structural feature maps (named numeric
// counts such as num_statements, num_branches). Over the intersection of
// feature keys it averages the per-key similarity 1 - |a-b|/(max(a,b)+ε);
// a key where both counts are 0 therefore scores 1.0. An empty key
// intersection scores 0.0. The metric is symmetric and order-independent.
func StructuralSimilarity(featuresA, featuresB map[string]float64) float64 {
	if len(featuresA) == 0 || len(featuresB) == 0 {
		return 0.0
	}

	var sum float64
	shared := 0
	for key, a := range featuresA {
		b, ok := featuresB[key]
		if !ok {
			continue
		}
		shared++
		sum += 1.0 - math.Abs(a-b)/(math.Max(a, b)+constants.StructuralSimilarityEpsilon)
	}

	if shared == 0 {
		return 0.0
	}
	return sum / float64(shared)
}

// Clamp01 clamps a value into [0, 1]. Out-of-range scalar inputs are
// normalized to the boundaries rather than rejected.
func Clamp01(v float64) float64 {
	if v < 0.0 || math.IsNaN(v) {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
