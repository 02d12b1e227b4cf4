package main

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/pysmell/internal/version"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pysmell",
		Short: "A Python code smell detector",
		Long: `pysmell finds code smells in Python files by combining three detectors:

  • a trained classifier over static code metrics
  • structural checks for long methods and large classes
  • the findings of an external linter (pylint)

Each analyzed file gets one merged report, saved to the results directory.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress log output")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file path (.pysmell.toml, pyproject.toml, YAML or JSON)")

	rootCmd.AddCommand(NewDetectCmd())
	rootCmd.AddCommand(NewLocateCmd())
	rootCmd.AddCommand(NewReportCmd())
	rootCmd.AddCommand(NewAccuraciesCmd())
	rootCmd.AddCommand(NewExplainCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
	return rootCmd
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
