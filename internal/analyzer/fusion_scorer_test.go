package analyzer

import (
	"testing"

	"github.com/clonefuse/clonefuse/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFusionScorer_BaseScore(t *testing.T) {
	scorer := NewDefaultFusionScorer()

	t.Run("AllZero", func(t *testing.T) {
		score, _, _ := scorer.Score(0.0, 0.0, false, "", "")
		assert.Equal(t, 0.0, score, "No signal at all must score exactly 0.0")
	})

	t.Run("WeightedSum", func(t *testing.T) {
		// 0.3*0.5 + 0.5*0.4 + 0.2*0 = 0.35, below both overrides
		score, _, _ := scorer.Score(0.5, 0.4, false, "", "")
		assert.InDelta(t, 0.35, score, 1e-9)
	})

	t.Run("DynamicAnomalyContributes", func(t *testing.T) {
		score, _, _ := scorer.Score(0.0, 0.0, true, "", "")
		assert.InDelta(t, 0.2, score, 1e-9, "Anomaly flag alone contributes its weight")
	})

	t.Run("AlwaysInUnitInterval", func(t *testing.T) {
		for _, in := range [][2]float64{{-5, -5}, {2, 2}, {0.5, 3}, {-1, 0.9}} {
			score, _, _ := scorer.Score(in[0], in[1], true, "x = 1", "x = 1")
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	})
}

func TestFusionScorer_Overrides(t *testing.T) {
	scorer := NewDefaultFusionScorer()

	t.Run("SyntacticOverride", func(t *testing.T) {
		// Identical non-empty code gives syntactic similarity 1.0, which
		// must not be suppressed by the near-zero weighted average
		code := "def f(x):\n    return x"
		score, components, _ := scorer.Score(0.0, 0.0, false, code, code)
		assert.Equal(t, 1.0, score)
		assert.Equal(t, 1.0, components.LineSimilarity)
		assert.Equal(t, 1.0, components.TokenSimilarity)
	})

	t.Run("SemanticOverride", func(t *testing.T) {
		// No shared syntax but strong semantics: score is lifted to at
		// least the semantic similarity
		score, _, _ := scorer.Score(0.0, 0.9, false, "a = 1", "while True:\n    z -= 3")
		assert.InDelta(t, 0.9, score, 1e-9)
	})

	t.Run("NoOverrideBelowCutoffs", func(t *testing.T) {
		// semantic 0.8 is not strictly above the 0.8 override cutoff
		score, _, _ := scorer.Score(0.0, 0.8, false, "", "")
		assert.InDelta(t, 0.4, score, 1e-9)
	})

	t.Run("BaseScoreWinsWhenHigher", func(t *testing.T) {
		// Strong semantics plus anomaly: base = 0.5*0.9 + 0.2 = 0.65,
		// override floor is 0.9, so the override still wins
		score, _, _ := scorer.Score(0.0, 0.9, true, "", "")
		assert.InDelta(t, 0.9, score, 1e-9)

		// But a base score above the floor is kept: 0.3 + 0.45 + 0.2 = 0.95
		score, _, _ = scorer.Score(1.0, 0.9, true, "", "")
		assert.InDelta(t, 0.95, score, 1e-9)
	})
}

func TestFusionScorer_Symmetry(t *testing.T) {
	scorer := NewDefaultFusionScorer()

	codeA := "def add(a, b):\n    return a + b"
	codeB := "def plus(x, y):\n    s = x + y\n    return s"

	scoreAB, _, _ := scorer.Score(0.6, 0.7, false, codeA, codeB)
	scoreBA, _, _ := scorer.Score(0.6, 0.7, false, codeB, codeA)
	assert.Equal(t, scoreAB, scoreBA, "Fusion score must be symmetric under swapping sides")
}

func TestFusionScorer_Components(t *testing.T) {
	scorer := NewDefaultFusionScorer()

	code := "x = 1"
	score, components, _ := scorer.Score(0.5, 0.6, true, code, code)

	require.NotNil(t, components)
	assert.Equal(t, 0.5, components.Structural)
	assert.Equal(t, 0.6, components.Semantic)
	assert.True(t, components.Dynamic)
	assert.InDelta(t, 0.15, components.WeightedStructural, 1e-9)
	assert.InDelta(t, 0.30, components.WeightedSemantic, 1e-9)
	assert.InDelta(t, 0.20, components.WeightedDynamic, 1e-9)
	assert.Equal(t, "Type 1 (Exact)", components.CloneType)

	// The components must be able to reconstruct the decision: identical
	// code means the syntactic override lifted the score to 1.0
	assert.Equal(t, 1.0, score)
}

func TestFusionScorer_MissingCode(t *testing.T) {
	scorer := NewDefaultFusionScorer()

	_, components, explanation := scorer.Score(0.4, 0.5, false, "", "x = 1")
	assert.Equal(t, "Unknown (No Code)", components.CloneType)
	assert.Equal(t, 0.0, components.LineSimilarity)
	assert.Equal(t, 0.0, components.TokenSimilarity)
	assert.Contains(t, explanation, "Unknown (No Code)")
}

func TestFusionScorer_Explanation(t *testing.T) {
	scorer := NewDefaultFusionScorer()

	t.Run("SyntacticReason", func(t *testing.T) {
		code := "def f():\n    return 42"
		_, _, explanation := scorer.Score(0.1, 0.1, false, code, code)
		assert.Equal(t, "Clone detected: Classified as Type 1 (Exact), High syntactic match (1.00)", explanation)
	})

	t.Run("SemanticReason", func(t *testing.T) {
		_, _, explanation := scorer.Score(0.1, 0.9, false, "a = 1", "zzz = 99")
		assert.Contains(t, explanation, "High semantic match (0.90)")
		assert.NotContains(t, explanation, "High syntactic match")
	})

	t.Run("AnomalyAppended", func(t *testing.T) {
		_, _, explanation := scorer.Score(0.0, 0.0, true, "", "")
		assert.Equal(t, "Clone detected: Classified as Unknown (No Code), Dynamic execution anomaly detected", explanation)
	})
}

func TestFusionScorer_ScorePair(t *testing.T) {
	scorer := NewDefaultFusionScorer()

	t.Run("NilSafe", func(t *testing.T) {
		assert.Nil(t, scorer.ScorePair(nil))
		assert.Nil(t, scorer.ScorePair(&domain.CandidatePair{A: &domain.CodeUnit{}}))
	})

	t.Run("RenamedPair", func(t *testing.T) {
		pair := &domain.CandidatePair{
			A: &domain.CodeUnit{
				File:     "samples/a.py",
				Function: "add",
				Code:     "def add(a, b):\n    return a + b",
				Features: map[string]float64{"num_statements": 1, "num_branches": 0},
			},
			B: &domain.CodeUnit{
				File:     "samples/b.py",
				Function: "add",
				Code:     "def add(c, b):\n    return c + b",
				Features: map[string]float64{"num_statements": 1, "num_branches": 0},
			},
			SemanticSim:    0.9,
			DynamicAnomaly: false,
		}

		report := scorer.ScorePair(pair)
		require.NotNil(t, report)

		assert.Equal(t, "samples/a.py", report.FileA)
		assert.Equal(t, "add", report.FuncA)
		assert.Equal(t, "samples/b.py", report.FileB)

		// One renamed identifier out of nine tokens
		assert.InDelta(t, 8.0/9.0, report.TokenSim, 1e-9)
		assert.Equal(t, domain.Type2Clone, report.CloneType)
		assert.Equal(t, 0.95, report.Confidence)
		assert.InDelta(t, 1.0, report.StructSim, 1e-6)

		// Syntactic override lifts the score to the token similarity
		assert.InDelta(t, 8.0/9.0, report.FusionScore, 1e-9)
		assert.NotNil(t, report.Components)
		assert.Contains(t, report.Explanation, "Type 2 (Renamed)")
	})

	t.Run("SemanticOnlyPair", func(t *testing.T) {
		pair := &domain.CandidatePair{
			A:           &domain.CodeUnit{File: "a.py", Function: "f", Code: "return sorted(xs)[0]"},
			B:           &domain.CodeUnit{File: "b.py", Function: "g", Code: "m = None\nfor v in vals:\n    if m is None or v < m:\n        m = v"},
			SemanticSim: 0.9,
		}

		report := scorer.ScorePair(pair)
		require.NotNil(t, report)
		assert.Equal(t, domain.Type4Clone, report.CloneType)
		assert.InDelta(t, 0.9, report.Confidence, 1e-9)
		assert.GreaterOrEqual(t, report.FusionScore, 0.9, "Semantic override must lift the score to at least 0.9")
	})
}
