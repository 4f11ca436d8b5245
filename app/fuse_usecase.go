package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/clonefuse/clonefuse/domain"
)

// FuseUseCase orchestrates fusion scoring: bundle loading, pair
// construction, scoring, and output
type FuseUseCase struct {
	service      domain.FusionService
	bundleLoader domain.BundleLoader
	formatter    domain.FusionOutputFormatter
	configLoader domain.FusionConfigurationLoader
	outputWriter domain.ReportWriter
}

// NewFuseUseCase creates a new fuse use case with the given dependencies
func NewFuseUseCase(
	service domain.FusionService,
	bundleLoader domain.BundleLoader,
	formatter domain.FusionOutputFormatter,
	configLoader domain.FusionConfigurationLoader,
	outputWriter domain.ReportWriter,
) *FuseUseCase {
	return &FuseUseCase{
		service:      service,
		bundleLoader: bundleLoader,
		formatter:    formatter,
		configLoader: configLoader,
		outputWriter: outputWriter,
	}
}

// Execute runs fusion scoring end to end and writes the formatted report.
// The returned response allows callers to chain propagation on the scored
// reports without re-running the analysis.
func (uc *FuseUseCase) Execute(ctx context.Context, req domain.FusionRequest) (*domain.FusionResponse, error) {
	startTime := time.Now()

	// Step 1: Load configuration if specified (request values take precedence)
	if req.ConfigPath != "" {
		configReq, err := uc.configLoader.LoadFusionConfig(req.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		req = uc.mergeConfiguration(*configReq, req)
	}

	// Step 2: Validate the request
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Step 3: Load bundles unless pairs were supplied directly
	if len(req.Pairs) == 0 && len(req.InputPatterns) > 0 {
		bundle, err := uc.bundleLoader.LoadBundles(req.InputPatterns, req.ExcludePatterns)
		if err != nil {
			return nil, fmt.Errorf("failed to load analysis bundles: %w", err)
		}
		req.Pairs = bundle.CandidatePairs()
	}

	// Step 4: Score every candidate pair
	response, err := uc.service.FusePairs(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("fusion scoring failed: %w", err)
	}
	response.Duration = time.Since(startTime).Milliseconds()

	// Step 5: Format and output results
	if req.OutputWriter == nil {
		return nil, fmt.Errorf("no valid output writer specified")
	}

	err = uc.outputWriter.Write(req.OutputWriter, req.OutputPath, req.OutputFormat, func(w io.Writer) error {
		return uc.formatter.FormatFusionResponse(response, req.OutputFormat, w)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format output: %w", err)
	}

	return response, nil
}

// mergeConfiguration merges configuration from file with request parameters.
// Request parameters take precedence over configuration file values.
func (uc *FuseUseCase) mergeConfiguration(configReq, requestReq domain.FusionRequest) domain.FusionRequest {
	merged := configReq

	// Runtime-only fields always come from the request
	merged.Pairs = requestReq.Pairs
	merged.OutputWriter = requestReq.OutputWriter
	merged.OutputPath = requestReq.OutputPath
	merged.ConfigPath = requestReq.ConfigPath
	merged.NoOpen = requestReq.NoOpen

	if len(requestReq.InputPatterns) > 0 {
		merged.InputPatterns = requestReq.InputPatterns
	}
	if len(requestReq.ExcludePatterns) > 0 {
		merged.ExcludePatterns = requestReq.ExcludePatterns
	}

	// Override values that differ from defaults
	defaultReq := domain.DefaultFusionRequest()

	if requestReq.Weights != defaultReq.Weights {
		merged.Weights = requestReq.Weights
	}
	if requestReq.Thresholds != defaultReq.Thresholds {
		merged.Thresholds = requestReq.Thresholds
	}
	if requestReq.MinScore != defaultReq.MinScore {
		merged.MinScore = requestReq.MinScore
	}
	if requestReq.MaxResults != defaultReq.MaxResults {
		merged.MaxResults = requestReq.MaxResults
	}
	if requestReq.OutputFormat != defaultReq.OutputFormat {
		merged.OutputFormat = requestReq.OutputFormat
	}
	if requestReq.SortBy != defaultReq.SortBy {
		merged.SortBy = requestReq.SortBy
	}
	if requestReq.ShowDetails != defaultReq.ShowDetails {
		merged.ShowDetails = requestReq.ShowDetails
	}

	return merged
}
