package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clonefuse/clonefuse/domain"
)

func TestPropagateBugs(t *testing.T) {
	svc := NewPropagationService()

	bugs := []*domain.Bug{
		{
			File:     "a.py",
			Function: "f",
			Line:     12,
			Severity: domain.SeverityCritical,
			Category: "Null Deref",
			Message:  "possible None access",
			Detector: "Pattern Matcher",
		},
	}
	reports := []*domain.FusionReport{
		{FileA: "a.py", FuncA: "f", FileB: "b.py", FuncB: "g", FusionScore: 0.9},
	}

	t.Run("propagates and merges", func(t *testing.T) {
		req := &domain.PropagationRequest{
			Bugs:           bugs,
			Reports:        reports,
			ScoreThreshold: 0.7,
			MergeResults:   true,
		}

		response, err := svc.PropagateBugs(context.Background(), req)
		require.NoError(t, err)

		require.Len(t, response.PropagatedBugs, 1)
		propagated := response.PropagatedBugs[0]
		assert.Equal(t, "b.py", propagated.File)
		assert.Equal(t, "g", propagated.Function)
		assert.Equal(t, domain.SeverityMedium, propagated.Severity)

		// Merged list holds original + synthesized, critical first
		require.Len(t, response.MergedBugs, 2)
		assert.Equal(t, domain.SeverityCritical, response.MergedBugs[0].Severity)

		require.NotNil(t, response.Statistics)
		assert.Equal(t, 2, response.Statistics.TotalBugs)
		assert.Equal(t, 2, response.Statistics.FilesWithBugs)
	})

	t.Run("without merge statistics cover propagated only", func(t *testing.T) {
		req := &domain.PropagationRequest{
			Bugs:           bugs,
			Reports:        reports,
			ScoreThreshold: 0.7,
		}

		response, err := svc.PropagateBugs(context.Background(), req)
		require.NoError(t, err)

		assert.Nil(t, response.MergedBugs)
		assert.Equal(t, 1, response.Statistics.TotalBugs)
	})

	t.Run("rejects invalid threshold", func(t *testing.T) {
		req := &domain.PropagationRequest{ScoreThreshold: 1.5}

		_, err := svc.PropagateBugs(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid propagation request")
	})

	t.Run("rejects nil request", func(t *testing.T) {
		_, err := svc.PropagateBugs(context.Background(), nil)
		assert.Error(t, err)
	})
}
