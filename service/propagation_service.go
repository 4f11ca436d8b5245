package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clonefuse/clonefuse/domain"
	"github.com/clonefuse/clonefuse/internal/analyzer"
)

// PropagationService implements the domain.PropagationService interface
type PropagationService struct{}

// NewPropagationService creates a new propagation service
func NewPropagationService() *PropagationService {
	return &PropagationService{}
}

// PropagateBugs spreads known bugs across qualifying clone edges and,
// when requested, merges the synthesized bugs into the master list
// (deduplicated and severity-sorted)
func (s *PropagationService) PropagateBugs(ctx context.Context, req *domain.PropagationRequest) (*domain.PropagationResponse, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("propagation request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid propagation request: %w", err)
	}

	startTime := time.Now()

	engine := analyzer.NewPropagationEngine(req.ScoreThreshold)
	propagated := engine.Propagate(req.Bugs, req.Reports)

	response := &domain.PropagationResponse{
		PropagatedBugs: propagated,
		Duration:       time.Since(startTime).Milliseconds(),
	}

	if req.MergeResults {
		response.MergedBugs = analyzer.MergeBugs(req.Bugs, propagated)
		response.Statistics = analyzer.ComputeBugStatistics(response.MergedBugs)
	} else {
		response.Statistics = analyzer.ComputeBugStatistics(propagated)
	}

	return response, nil
}
