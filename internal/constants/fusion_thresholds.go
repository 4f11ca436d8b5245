package constants

// Clone classification thresholds over syntactic similarity, evaluated as a
// top-down ladder (first match wins). These values follow the standard
// clone taxonomy used in clone detection research.
//
// References:
// - Roy, C. K., & Cordy, J. R. (2007). A survey on software clone detection research
// - Bellon, S., et al. (2007). Comparison and evaluation of clone detection tools
const (
	// DefaultType1CloneThreshold is the syntactic similarity at or above
	// which a pair is classified Type-1 (identical or near-identical logic).
	DefaultType1CloneThreshold = 0.95

	// DefaultType2CloneThreshold is the syntactic similarity at or above
	// which a pair is classified Type-2 (same structure, renamed identifiers).
	DefaultType2CloneThreshold = 0.85

	// DefaultType3CloneThreshold is the syntactic similarity at or above
	// which a pair is classified Type-3 (statements added/removed but
	// generally similar structure).
	DefaultType3CloneThreshold = 0.60

	// DefaultType4SemanticThreshold is the semantic similarity at or above
	// which a syntactically dissimilar pair is still classified Type-4.
	DefaultType4SemanticThreshold = 0.75
)

// Classification confidence values returned with each clone tier.
const (
	Type1Confidence = 1.0
	Type2Confidence = 0.95
	Type3Confidence = 0.85
)

// Fusion scoring defaults. The base score is a weighted sum of structural
// similarity, semantic similarity, and the dynamic anomaly flag; a strong
// single signal overrides a weak weighted average.
const (
	// DefaultStructuralWeight is the base-score weight of structural similarity.
	DefaultStructuralWeight = 0.3

	// DefaultSemanticWeight is the base-score weight of semantic similarity.
	DefaultSemanticWeight = 0.5

	// DefaultDynamicWeight is the base-score weight of the dynamic anomaly flag.
	DefaultDynamicWeight = 0.2

	// DefaultSyntacticOverrideThreshold: above this syntactic similarity the
	// fusion score is lifted to at least the syntactic similarity, so a
	// strong textual match is not suppressed by a low weighted average.
	DefaultSyntacticOverrideThreshold = 0.7

	// DefaultSemanticOverrideThreshold: above this semantic similarity the
	// fusion score is lifted to at least the semantic similarity, capturing
	// Type-4 clones that share no syntax.
	DefaultSemanticOverrideThreshold = 0.8

	// ExplanationHighMatchThreshold: above this value a "high match" reason
	// is included in the report explanation.
	ExplanationHighMatchThreshold = 0.8
)

// Propagation defaults.
const (
	// DefaultPropagationThreshold is the minimum fusion score for a clone
	// pair to act as a bug-propagation edge. Intentionally stricter than
	// the Type-3 classification cutoff to avoid over-propagating weak
	// matches.
	DefaultPropagationThreshold = 0.7

	// PropagatedBugCategory is the category assigned to synthesized bugs.
	PropagatedBugCategory = "Propagated Bug"

	// PropagationDetectorName identifies this engine as the bug detector.
	PropagationDetectorName = "Clone Propagation"
)

// StructuralSimilarityEpsilon avoids divide-by-zero in the per-feature
// similarity term when both feature values are 0.
const StructuralSimilarityEpsilon = 1e-6

// BugDedupMessagePrefixLen is the number of leading message characters used
// in the bug deduplication key.
const BugDedupMessagePrefixLen = 50
