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

// PropagateCommand handles the bug propagation CLI command
type PropagateCommand struct {
	// Input parameters
	configFile      string
	excludePatterns []string

	// Propagation configuration
	scoreThreshold float64
	noMerge        bool

	// Output format flags (only one should be true)
	json bool
	csv  bool
	yaml bool

	// Output options
	outputPath string

	timeout time.Duration
	verbose bool
}

// NewPropagateCommand creates a new propagate command
func NewPropagateCommand() *PropagateCommand {
	return &PropagateCommand{
		scoreThreshold: constants.DefaultPropagationThreshold,
		timeout:        5 * time.Minute,
	}
}

// CreateCobraCommand creates the Cobra command for bug propagation
func (c *PropagateCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propagate [bundles...]",
		Short: "Spread known bugs across high-confidence clone edges",
		Long: `Propagate detected bugs across clone pairs.

Every clone pair whose fusion score reaches the propagation threshold
becomes a bidirectional edge: a bug attached to one side is synthesized
onto the other side as a medium-severity "Propagated Bug" pointing back
at its origin. Propagation is idempotent - running it twice adds
nothing new.

Examples:
  # Propagate bugs from bundles in the current directory
  clonefuse propagate *.bundle.json

  # Require a higher fusion score for propagation edges
  clonefuse propagate --threshold 0.85 *.bundle.json

  # Report only the synthesized bugs, without merging
  clonefuse propagate --no-merge *.bundle.json

  # Output results as JSON
  clonefuse propagate --json *.bundle.json > bugs.json`,
		RunE: c.runPropagate,
	}

	// Input flags
	cmd.Flags().StringVarP(&c.configFile, "config", "c", c.configFile,
		"Path to configuration file")
	cmd.Flags().StringSliceVar(&c.excludePatterns, "exclude", nil,
		"Bundle patterns to exclude")

	// Propagation flags
	cmd.Flags().Float64VarP(&c.scoreThreshold, "threshold", "t", c.scoreThreshold,
		"Minimum fusion score for a clone edge to carry bugs (0.0-1.0)")
	cmd.Flags().BoolVar(&c.noMerge, "no-merge", false,
		"Report only synthesized bugs instead of the merged bug list")

	// Output format flags
	cmd.Flags().BoolVar(&c.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Output results as CSV")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Output results as YAML")

	// Output options
	cmd.Flags().StringVarP(&c.outputPath, "output", "o", "",
		"Write the report to a file instead of stdout")

	cmd.Flags().DurationVar(&c.timeout, "timeout", c.timeout,
		"Maximum time to spend scoring pairs")
	cmd.Flags().BoolVarP(&c.verbose, "verbose", "v", c.verbose,
		"Enable verbose output")

	return cmd
}

// runPropagate executes the propagate command
func (c *PropagateCommand) runPropagate(cmd *cobra.Command, args []string) error {
	format, err := resolveOutputFormat(c.json, c.yaml, c.csv)
	if err != nil {
		return err
	}

	configPath := c.configFile
	if configPath == "" {
		if found, err := config.FindTomlConfig("."); err == nil {
			configPath = found
		}
	}

	req := domain.PropagationRequest{
		ScoreThreshold: c.scoreThreshold,
		MergeResults:   !c.noMerge,
		OutputFormat:   format,
		OutputWriter:   cmd.OutOrStdout(),
		OutputPath:     c.outputPath,
		ConfigPath:     configPath,
	}

	fusionReq := domain.DefaultFusionRequest()
	fusionReq.InputPatterns = args
	fusionReq.ExcludePatterns = c.excludePatterns
	fusionReq.Thresholds.PropagationThreshold = c.scoreThreshold

	useCase := c.createPropagateUseCase()

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if _, err := useCase.Execute(ctx, req, *fusionReq); err != nil {
		return fmt.Errorf("bug propagation failed: %w", err)
	}

	return nil
}

// createPropagateUseCase wires the propagate use case with its service dependencies
func (c *PropagateCommand) createPropagateUseCase() *app.PropagateUseCase {
	var progress domain.ProgressManager
	if c.verbose {
		progress = service.NewProgressManager()
	}

	return app.NewPropagateUseCase(
		service.NewFusionService(progress),
		service.NewPropagationService(),
		service.NewBundleLoader(),
		service.NewBugOutputFormatter(),
		config.NewFusionConfigLoader(),
		service.NewReportWriter(os.Stderr),
	)
}

// NewPropagateCmd creates and returns the propagate cobra command
func NewPropagateCmd() *cobra.Command {
	propagateCommand := NewPropagateCommand()
	return propagateCommand.CreateCobraCommand()
}
