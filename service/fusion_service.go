package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/clonefuse/clonefuse/domain"
	"github.com/clonefuse/clonefuse/internal/analyzer"
)

// FusionService implements the domain.FusionService interface
type FusionService struct {
	progress domain.ProgressManager
}

// NewFusionService creates a new fusion service.
// progress can be nil - the service can work without progress reporting
func NewFusionService(progress domain.ProgressManager) *FusionService {
	return &FusionService{
		progress: progress,
	}
}

// FusePairs scores every candidate pair and returns reports sorted by the
// requested criteria (descending fusion score by default)
func (s *FusionService) FusePairs(ctx context.Context, req *domain.FusionRequest) (*domain.FusionResponse, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("fusion request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fusion request: %w", err)
	}

	startTime := time.Now()

	scorer := analyzer.NewFusionScorer(req.Weights, req.Thresholds)

	reports, err := s.scorePairs(ctx, scorer, req.Pairs)
	if err != nil {
		return nil, err
	}

	if req.MinScore > 0 {
		filtered := reports[:0]
		for _, r := range reports {
			if r.FusionScore >= req.MinScore {
				filtered = append(filtered, r)
			}
		}
		reports = filtered
	}

	sortReports(reports, req.SortBy)

	if req.MaxResults > 0 && len(reports) > req.MaxResults {
		reports = reports[:req.MaxResults]
	}

	response := &domain.FusionResponse{
		Reports:    reports,
		Statistics: computeFusionStatistics(reports, req.Thresholds.PropagationThreshold),
		Duration:   time.Since(startTime).Milliseconds(),
	}

	return response, nil
}

// ScorePair scores a single candidate pair
func (s *FusionService) ScorePair(pair *domain.CandidatePair, req *domain.FusionRequest) (*domain.FusionReport, error) {
	if pair == nil {
		return nil, fmt.Errorf("candidate pair cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("fusion request cannot be nil")
	}

	scorer := analyzer.NewFusionScorer(req.Weights, req.Thresholds)
	report := scorer.ScorePair(pair)
	if report == nil {
		return nil, domain.NewInvalidInputError("candidate pair is missing a code unit", nil)
	}
	return report, nil
}

// scorePairs evaluates every pair with a bounded worker pool. Each pair's
// fusion is independent of every other pair; cancellation is honored only
// between pairs, never mid-computation.
func (s *FusionService) scorePairs(ctx context.Context, scorer *analyzer.FusionScorer, pairs []*domain.CandidatePair) ([]*domain.FusionReport, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	if s.progress != nil {
		s.progress.Initialize(len(pairs))
		s.progress.Start()
		defer s.progress.Close()
	}

	workers := runtime.NumCPU()
	if workers > len(pairs) {
		workers = len(pairs)
	}

	results := make([]*domain.FusionReport, len(pairs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	var processed atomic.Int64

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = scorer.ScorePair(pairs[idx])

				done := processed.Add(1)
				if s.progress != nil {
					s.progress.Update(int(done), len(pairs))
				}
			}
		}()
	}

	var cancelled error
dispatch:
	for i := range pairs {
		select {
		case <-ctx.Done():
			cancelled = fmt.Errorf("fusion scoring cancelled: %w", ctx.Err())
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if s.progress != nil {
		s.progress.Complete(cancelled == nil)
	}
	if cancelled != nil {
		return nil, cancelled
	}

	reports := make([]*domain.FusionReport, 0, len(results))
	for _, r := range results {
		if r != nil {
			reports = append(reports, r)
		}
	}
	return reports, nil
}

// sortReports sorts fusion reports by the requested criteria. Ties always
// break on pair location so output order is deterministic.
func sortReports(reports []*domain.FusionReport, sortBy domain.SortCriteria) {
	byLocation := func(a, b *domain.FusionReport) bool {
		if a.FileA != b.FileA {
			return a.FileA < b.FileA
		}
		if a.FuncA != b.FuncA {
			return a.FuncA < b.FuncA
		}
		if a.FileB != b.FileB {
			return a.FileB < b.FileB
		}
		return a.FuncB < b.FuncB
	}

	sort.SliceStable(reports, func(i, j int) bool {
		a, b := reports[i], reports[j]
		switch sortBy {
		case domain.SortByLocation:
			return byLocation(a, b)
		case domain.SortByType:
			if a.CloneType != b.CloneType {
				return a.CloneType > b.CloneType
			}
		}
		if a.FusionScore != b.FusionScore {
			return a.FusionScore > b.FusionScore
		}
		return byLocation(a, b)
	})
}

// computeFusionStatistics tallies scored reports
func computeFusionStatistics(reports []*domain.FusionReport, highConfidenceThreshold float64) *domain.FusionStatistics {
	stats := domain.NewFusionStatistics()
	stats.TotalPairs = len(reports)

	var sum float64
	for _, r := range reports {
		stats.PairsByType[r.CloneType.String()]++
		if r.CloneType.IsClone() {
			stats.ClonePairs++
		}
		if r.FusionScore >= highConfidenceThreshold {
			stats.HighConfidence++
		}
		sum += r.FusionScore
		if r.FusionScore > stats.MaxScore {
			stats.MaxScore = r.FusionScore
		}
	}
	if len(reports) > 0 {
		stats.AverageScore = sum / float64(len(reports))
	}

	return stats
}
