package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/clonefuse/clonefuse/domain"
)

// PropagateUseCase orchestrates bug propagation over scored clone reports
type PropagateUseCase struct {
	fusionService      domain.FusionService
	propagationService domain.PropagationService
	bundleLoader       domain.BundleLoader
	formatter          domain.BugOutputFormatter
	configLoader       domain.FusionConfigurationLoader
	outputWriter       domain.ReportWriter
}

// NewPropagateUseCase creates a new propagate use case with the given dependencies
func NewPropagateUseCase(
	fusionService domain.FusionService,
	propagationService domain.PropagationService,
	bundleLoader domain.BundleLoader,
	formatter domain.BugOutputFormatter,
	configLoader domain.FusionConfigurationLoader,
	outputWriter domain.ReportWriter,
) *PropagateUseCase {
	return &PropagateUseCase{
		fusionService:      fusionService,
		propagationService: propagationService,
		bundleLoader:       bundleLoader,
		formatter:          formatter,
		configLoader:       configLoader,
		outputWriter:       outputWriter,
	}
}

// Execute runs the full propagation pipeline: load bundles, score pairs,
// propagate bugs across qualifying clone edges, and write the report.
// Bugs and reports already present on the request skip the corresponding
// pipeline stages.
func (uc *PropagateUseCase) Execute(ctx context.Context, req domain.PropagationRequest, fusionReq domain.FusionRequest) (*domain.PropagationResponse, error) {
	startTime := time.Now()

	// Step 1: Load fusion configuration if specified
	if req.ConfigPath != "" {
		configReq, err := uc.configLoader.LoadFusionConfig(req.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		fusionReq.Weights = configReq.Weights
		fusionReq.Thresholds = configReq.Thresholds
		if len(fusionReq.InputPatterns) == 0 {
			fusionReq.InputPatterns = configReq.InputPatterns
			fusionReq.ExcludePatterns = configReq.ExcludePatterns
		}
	}

	// Step 2: Validate the request
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Step 3: Load bundles when bugs or reports are missing
	if (req.Bugs == nil || req.Reports == nil) && len(fusionReq.InputPatterns) > 0 {
		bundle, err := uc.bundleLoader.LoadBundles(fusionReq.InputPatterns, fusionReq.ExcludePatterns)
		if err != nil {
			return nil, fmt.Errorf("failed to load analysis bundles: %w", err)
		}
		if req.Bugs == nil {
			req.Bugs = bundle.Bugs
		}
		if req.Reports == nil {
			fusionReq.Pairs = bundle.CandidatePairs()
		}
	}

	// Step 4: Score pairs unless reports were supplied directly
	if req.Reports == nil {
		fusionResponse, err := uc.fusionService.FusePairs(ctx, &fusionReq)
		if err != nil {
			return nil, fmt.Errorf("fusion scoring failed: %w", err)
		}
		req.Reports = fusionResponse.Reports
	}

	// Step 5: Propagate bugs across qualifying clone edges
	response, err := uc.propagationService.PropagateBugs(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("bug propagation failed: %w", err)
	}
	response.Duration = time.Since(startTime).Milliseconds()

	// Step 6: Format and output results
	if req.OutputWriter == nil {
		return nil, fmt.Errorf("no valid output writer specified")
	}

	err = uc.outputWriter.Write(req.OutputWriter, req.OutputPath, req.OutputFormat, func(w io.Writer) error {
		return uc.formatter.FormatPropagationResponse(response, req.OutputFormat, w)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format output: %w", err)
	}

	return response, nil
}
