package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneTypeString(t *testing.T) {
	assert.Equal(t, "Type 1 (Exact)", Type1Clone.String())
	assert.Equal(t, "Type 2 (Renamed)", Type2Clone.String())
	assert.Equal(t, "Type 3 (Modified)", Type3Clone.String())
	assert.Equal(t, "Type 4 (Semantic)", Type4Clone.String())
	assert.Equal(t, "Non-Clone", NonClone.String())
	assert.Equal(t, "Unknown (No Code)", UnknownClone.String())
}

func TestCloneTypeIsClone(t *testing.T) {
	assert.True(t, Type1Clone.IsClone())
	assert.True(t, Type4Clone.IsClone())
	assert.False(t, NonClone.IsClone())
	assert.False(t, UnknownClone.IsClone())
}

func TestSimilarityMetricsSyntactic(t *testing.T) {
	m := SimilarityMetrics{LineSim: 0.4, TokenSim: 0.9}
	assert.Equal(t, 0.9, m.Syntactic())

	m = SimilarityMetrics{LineSim: 0.95, TokenSim: 0.6}
	assert.Equal(t, 0.95, m.Syntactic())
}

func TestFusionWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		weights FusionWeights
		wantErr bool
	}{
		{name: "defaults", weights: DefaultFusionWeights(), wantErr: false},
		{name: "rebalanced", weights: FusionWeights{Structural: 0.2, Semantic: 0.6, Dynamic: 0.2}, wantErr: false},
		{name: "does not sum to one", weights: FusionWeights{Structural: 0.5, Semantic: 0.5, Dynamic: 0.5}, wantErr: true},
		{name: "negative weight", weights: FusionWeights{Structural: -0.2, Semantic: 1.0, Dynamic: 0.2}, wantErr: true},
		{name: "weight above one", weights: FusionWeights{Structural: 1.2, Semantic: -0.1, Dynamic: -0.1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFusionThresholdsValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultFusionThresholds().Validate())
	})

	t.Run("out of range", func(t *testing.T) {
		thresholds := DefaultFusionThresholds()
		thresholds.SemanticOverride = 1.5
		assert.Error(t, thresholds.Validate())
	})

	t.Run("ladder ordering enforced", func(t *testing.T) {
		thresholds := DefaultFusionThresholds()
		thresholds.Type2Threshold = 0.96
		assert.Error(t, thresholds.Validate())

		thresholds = DefaultFusionThresholds()
		thresholds.Type3Threshold = 0.85
		assert.Error(t, thresholds.Validate())
	})
}

func TestFusionRequestValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultFusionRequest().Validate())
	})

	t.Run("bad min score", func(t *testing.T) {
		req := DefaultFusionRequest()
		req.MinScore = -0.5
		assert.Error(t, req.Validate())
	})

	t.Run("bad max results", func(t *testing.T) {
		req := DefaultFusionRequest()
		req.MaxResults = -1
		assert.Error(t, req.Validate())
	})

	t.Run("bad weights reported", func(t *testing.T) {
		req := DefaultFusionRequest()
		req.Weights.Dynamic = 0.9
		require.Error(t, req.Validate())
	})
}

func TestUnitKey(t *testing.T) {
	unit := &CodeUnit{File: "src/a.py", Function: "run"}
	key := unit.Key()

	assert.Equal(t, "src/a.py", key.File)
	assert.Equal(t, "run", key.Function)
	assert.Equal(t, "src/a.py:run", key.String())

	// Keys are comparable and usable as map keys
	other := &CodeUnit{File: "src/a.py", Function: "run", Code: "pass"}
	assert.Equal(t, key, other.Key())
}

func TestFusionReportKeys(t *testing.T) {
	report := &FusionReport{FileA: "a.py", FuncA: "f", FileB: "b.py", FuncB: "g"}

	assert.Equal(t, UnitKey{File: "a.py", Function: "f"}, report.KeyA())
	assert.Equal(t, UnitKey{File: "b.py", Function: "g"}, report.KeyB())
}
