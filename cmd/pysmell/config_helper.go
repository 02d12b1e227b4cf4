package main

import (
	"context"

	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/config"
	"github.com/ludo-technologies/pysmell/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// explicitFlags returns the names of the flags the user set on the command line.
func explicitFlags(cmd *cobra.Command) map[string]bool {
	flags := make(map[string]bool)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		flags[f.Name] = true
	})
	return flags
}

// loadConfig resolves the configuration for a command: file (or discovery from
// startDir), environment, then explicitly set flags.
func loadConfig(cmd *cobra.Command, startDir string, o config.Overrides, locator bool) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath, startDir)
	if err != nil {
		return nil, err
	}
	cfg.Merge(o, explicitFlags(cmd), locator)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the logger from the global flags.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	jsonLogs, _ := cmd.Flags().GetBool("log-json")
	return logging.New(logging.Options{Verbose: verbose, Quiet: quiet, JSON: jsonLogs})
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// addOutputFlags registers the flags shared by report-producing commands.
func addOutputFlags(cmd *cobra.Command, o *config.Overrides, outputPath *string) {
	cmd.Flags().StringVarP(&o.Format, config.FlagFormat, "f", string(domain.OutputFormatText), "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&o.NoColor, config.FlagNoColor, false, "Disable colored output")
	cmd.Flags().StringVarP(outputPath, "output", "o", "", "Write the report to a file instead of stdout")
}

// addInputFlags registers the file collection flags.
func addInputFlags(cmd *cobra.Command, o *config.Overrides) {
	cmd.Flags().StringSliceVar(&o.IncludePatterns, config.FlagInclude, nil, "Glob patterns of files to include")
	cmd.Flags().StringSliceVar(&o.ExcludePatterns, config.FlagExclude, nil, "Glob patterns of files or directories to exclude")
	cmd.Flags().BoolVarP(&o.Recursive, config.FlagRecursive, "r", true, "Descend into directories")
}

// addThresholdFlags registers the structural threshold flags.
func addThresholdFlags(cmd *cobra.Command, o *config.Overrides, lines, methods, classLines int) {
	cmd.Flags().IntVar(&o.LongMethodLines, config.FlagLongMethodLines, lines, "Function length (lines) at which a method is long")
	cmd.Flags().IntVar(&o.ClassMethods, config.FlagClassMethods, methods, "Method count above which a class is large")
	cmd.Flags().IntVar(&o.ClassLines, config.FlagClassLines, classLines, "Line count above which a class is large")
}

// addModelFlags registers the artifact directory flags.
func addModelFlags(cmd *cobra.Command, o *config.Overrides) {
	cmd.Flags().StringVar(&o.ModelsDir, config.FlagModelsDir, config.DefaultModelsDir, "Directory holding the trained models")
	cmd.Flags().StringVar(&o.ResultsDir, config.FlagResultsDir, config.DefaultResultsDir, "Directory holding training_summary.txt and saved reports")
}
