package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/clonefuse/clonefuse/app"
	"github.com/clonefuse/clonefuse/domain"
	"github.com/clonefuse/clonefuse/internal/config"
	"github.com/clonefuse/clonefuse/internal/constants"
	"github.com/clonefuse/clonefuse/service"
)

// FuseCommand handles the fusion scoring CLI command
type FuseCommand struct {
	// Input parameters
	configFile      string
	excludePatterns []string

	// Scoring configuration
	structuralWeight float64
	semanticWeight   float64
	dynamicWeight    float64

	// Type-specific thresholds
	type1Threshold float64
	type2Threshold float64
	type3Threshold float64
	type4Threshold float64

	// Override floors
	syntacticOverride float64
	semanticOverride  float64

	// Output format flags (only one should be true)
	json bool
	csv  bool
	yaml bool

	// Output options
	outputPath  string
	showDetails bool
	sortBy      string

	// Filtering
	minScore   float64
	maxResults int

	timeout time.Duration
	verbose bool
}

// NewFuseCommand creates a new fuse command
func NewFuseCommand() *FuseCommand {
	return &FuseCommand{
		structuralWeight:  constants.DefaultStructuralWeight,
		semanticWeight:    constants.DefaultSemanticWeight,
		dynamicWeight:     constants.DefaultDynamicWeight,
		type1Threshold:    constants.DefaultType1CloneThreshold,
		type2Threshold:    constants.DefaultType2CloneThreshold,
		type3Threshold:    constants.DefaultType3CloneThreshold,
		type4Threshold:    constants.DefaultType4SemanticThreshold,
		syntacticOverride: constants.DefaultSyntacticOverrideThreshold,
		semanticOverride:  constants.DefaultSemanticOverrideThreshold,
		sortBy:            "score",
		minScore:          0.0,
		maxResults:        0,
		timeout:           5 * time.Minute,
	}
}

// CreateCobraCommand creates the Cobra command for fusion scoring
func (c *FuseCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuse [bundles...]",
		Short: "Score candidate clone pairs by fusing similarity signals",
		Long: `Score candidate clone pairs from analysis bundles.

Each pair is classified into a clone type on a syntactic threshold
ladder (with a semantic fallback for Type-4), then assigned a fusion
score combining structural, semantic, and dynamic signals. High
syntactic or semantic similarity can override a weak base score.

Examples:
  # Score pairs from bundles in the current directory
  clonefuse fuse *.bundle.json

  # Only report pairs scoring at least 0.7
  clonefuse fuse --min-score 0.7 results/**/*.json

  # Show the per-pair component breakdown
  clonefuse fuse --details *.bundle.json

  # Output results as JSON
  clonefuse fuse --json *.bundle.json > fused.json`,
		RunE: c.runFuse,
	}

	// Input flags
	cmd.Flags().StringVarP(&c.configFile, "config", "c", c.configFile,
		"Path to configuration file")
	cmd.Flags().StringSliceVar(&c.excludePatterns, "exclude", nil,
		"Bundle patterns to exclude")

	// Weight flags
	cmd.Flags().Float64Var(&c.structuralWeight, "structural-weight", c.structuralWeight,
		"Base-score weight of structural similarity")
	cmd.Flags().Float64Var(&c.semanticWeight, "semantic-weight", c.semanticWeight,
		"Base-score weight of semantic similarity")
	cmd.Flags().Float64Var(&c.dynamicWeight, "dynamic-weight", c.dynamicWeight,
		"Base-score weight of the dynamic anomaly signal")

	// Type-specific threshold flags
	cmd.Flags().Float64Var(&c.type1Threshold, "type1-threshold", c.type1Threshold,
		"Syntactic similarity threshold for Type-1 clones (exact)")
	cmd.Flags().Float64Var(&c.type2Threshold, "type2-threshold", c.type2Threshold,
		"Syntactic similarity threshold for Type-2 clones (renamed)")
	cmd.Flags().Float64Var(&c.type3Threshold, "type3-threshold", c.type3Threshold,
		"Syntactic similarity threshold for Type-3 clones (modified)")
	cmd.Flags().Float64Var(&c.type4Threshold, "type4-threshold", c.type4Threshold,
		"Semantic similarity threshold for Type-4 clones (semantic)")

	// Override flags
	cmd.Flags().Float64Var(&c.syntacticOverride, "syntactic-override", c.syntacticOverride,
		"Syntactic similarity above which it floors the fusion score")
	cmd.Flags().Float64Var(&c.semanticOverride, "semantic-override", c.semanticOverride,
		"Semantic similarity above which it floors the fusion score")

	// Output format flags
	cmd.Flags().BoolVar(&c.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Output results as CSV")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Output results as YAML")

	// Output options
	cmd.Flags().StringVarP(&c.outputPath, "output", "o", "",
		"Write the report to a file instead of stdout")
	cmd.Flags().BoolVarP(&c.showDetails, "details", "d", c.showDetails,
		"Show the per-pair score component breakdown")
	cmd.Flags().StringVar(&c.sortBy, "sort", c.sortBy,
		"Sort results by: score, location, type")

	// Filtering flags
	cmd.Flags().Float64Var(&c.minScore, "min-score", c.minScore,
		"Minimum fusion score to report (0.0-1.0)")
	cmd.Flags().IntVar(&c.maxResults, "max-results", c.maxResults,
		"Maximum number of pairs to report (0 = unlimited)")

	cmd.Flags().DurationVar(&c.timeout, "timeout", c.timeout,
		"Maximum time to spend scoring pairs")
	cmd.Flags().BoolVarP(&c.verbose, "verbose", "v", c.verbose,
		"Enable verbose output")

	// Advanced tuning belongs in .clonefuse.toml, keep the help short
	_ = cmd.Flags().MarkHidden("type1-threshold")
	_ = cmd.Flags().MarkHidden("type2-threshold")
	_ = cmd.Flags().MarkHidden("type3-threshold")
	_ = cmd.Flags().MarkHidden("type4-threshold")
	_ = cmd.Flags().MarkHidden("syntactic-override")
	_ = cmd.Flags().MarkHidden("semantic-override")
	_ = cmd.Flags().MarkHidden("structural-weight")
	_ = cmd.Flags().MarkHidden("semantic-weight")
	_ = cmd.Flags().MarkHidden("dynamic-weight")

	return cmd
}

// runFuse executes the fuse command
func (c *FuseCommand) runFuse(cmd *cobra.Command, args []string) error {
	request, err := c.createFusionRequest(cmd, args)
	if err != nil {
		return fmt.Errorf("failed to create fusion request: %w", err)
	}

	useCase := c.createFuseUseCase()

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if _, err := useCase.Execute(ctx, *request); err != nil {
		return fmt.Errorf("fusion scoring failed: %w", err)
	}

	return nil
}

// createFusionRequest creates a fusion request from command line flags
func (c *FuseCommand) createFusionRequest(cmd *cobra.Command, patterns []string) (*domain.FusionRequest, error) {
	format, err := resolveOutputFormat(c.json, c.yaml, c.csv)
	if err != nil {
		return nil, err
	}

	sortBy := domain.SortCriteria(c.sortBy)
	if !sortBy.IsValid() {
		return nil, fmt.Errorf("invalid sort criteria: %s", c.sortBy)
	}

	configPath := c.configFile
	if configPath == "" {
		// Fall back to project-level TOML config if one exists
		if found, err := config.FindTomlConfig("."); err == nil {
			configPath = found
		}
	}

	req := domain.DefaultFusionRequest()
	req.InputPatterns = patterns
	req.ExcludePatterns = c.excludePatterns
	req.Weights = domain.FusionWeights{
		Structural: c.structuralWeight,
		Semantic:   c.semanticWeight,
		Dynamic:    c.dynamicWeight,
	}
	req.Thresholds.Type1Threshold = c.type1Threshold
	req.Thresholds.Type2Threshold = c.type2Threshold
	req.Thresholds.Type3Threshold = c.type3Threshold
	req.Thresholds.Type4Threshold = c.type4Threshold
	req.Thresholds.SyntacticOverride = c.syntacticOverride
	req.Thresholds.SemanticOverride = c.semanticOverride
	req.MinScore = c.minScore
	req.MaxResults = c.maxResults
	req.OutputFormat = format
	req.OutputWriter = cmd.OutOrStdout()
	req.OutputPath = c.outputPath
	req.SortBy = sortBy
	req.ShowDetails = c.showDetails
	req.ConfigPath = configPath

	return req, nil
}

// createFuseUseCase wires the fuse use case with its service dependencies
func (c *FuseCommand) createFuseUseCase() *app.FuseUseCase {
	var progress domain.ProgressManager
	if c.verbose {
		pm := service.NewProgressManager()
		pm.SetWriter(os.Stderr)
		progress = pm
	}

	return app.NewFuseUseCase(
		service.NewFusionService(progress),
		service.NewBundleLoader(),
		service.NewFusionOutputFormatter(c.showDetails),
		config.NewFusionConfigLoader(),
		service.NewReportWriter(os.Stderr),
	)
}

// NewFuseCmd creates and returns the fuse cobra command
func NewFuseCmd() *cobra.Command {
	fuseCommand := NewFuseCommand()
	return fuseCommand.CreateCobraCommand()
}
