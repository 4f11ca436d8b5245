package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/clonefuse/clonefuse/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "clonefuse",
	Short: "A similarity fusion and bug propagation engine for code clones",
	Long: `clonefuse fuses independent similarity signals into a single score
per candidate clone pair and spreads known bugs across high-confidence
clone edges.

It consumes analysis bundles produced by upstream collaborators
(extracted code units, semantic pair scores, dynamic test results, and
detected bugs) and combines them:

  • Line, token, and structural similarity computed from the units
  • Clone classification (Type-1 through Type-4) on a threshold ladder
  • Weighted fusion scoring with syntactic and semantic overrides
  • Bug propagation over clone edges above the propagation threshold`,
	Version: version.Short(),
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	// Add main subcommands
	rootCmd.AddCommand(NewFuseCmd())
	rootCmd.AddCommand(NewPropagateCmd())
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewInitCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
