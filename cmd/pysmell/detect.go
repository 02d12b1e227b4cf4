package main

import (
	"github.com/ludo-technologies/pysmell/app"
	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/config"
	"github.com/ludo-technologies/pysmell/service"
	"github.com/spf13/cobra"
)

// DetectCommand represents the detect command
type DetectCommand struct {
	overrides  config.Overrides
	outputPath string
	noSave     bool
	noProgress bool
}

// NewDetectCommand creates a new detect command
func NewDetectCommand() *DetectCommand {
	return &DetectCommand{}
}

// CreateCobraCommand creates the cobra command for smell detection
func (c *DetectCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [paths...]",
		Short: "Detect code smells in Python files",
		Long: `Analyze Python files with the trained classifier, the structural
detectors and the linter, and merge the results into one report per file.

Each report is also saved as <results_dir>/<file name>.json unless --no-save is given.

Examples:
  pysmell detect app.py
  pysmell detect src/ --format json
  pysmell detect src/ --long-method-lines 20 --exclude "**/migrations/**"`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.run,
	}

	addOutputFlags(cmd, &c.overrides, &c.outputPath)
	addInputFlags(cmd, &c.overrides)
	addThresholdFlags(cmd, &c.overrides,
		config.DefaultAnalysisLongMethodLines, config.DefaultAnalysisClassMethods, config.DefaultAnalysisClassLines)
	addModelFlags(cmd, &c.overrides)
	cmd.Flags().StringVar(&c.overrides.LinterCommand, config.FlagLinter, config.DefaultLinterCommand, "Linter executable")
	cmd.Flags().IntVar(&c.overrides.LinterTimeout, config.FlagLinterTimeout, config.DefaultLinterTimeout, "Linter timeout in seconds")
	cmd.Flags().IntVarP(&c.overrides.Concurrency, config.FlagConcurrency, "j", 0, "Files analyzed at once (0 = CPU count)")
	cmd.Flags().BoolVar(&c.noSave, "no-save", false, "Do not save per-file reports")
	cmd.Flags().BoolVar(&c.noProgress, "no-progress", false, "Hide the progress bar")
	return cmd
}

func (c *DetectCommand) run(cmd *cobra.Command, args []string) error {
	reader := service.NewFileReader()
	if err := reader.ValidatePaths(args); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, args[0], c.overrides, false)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	components := app.NewComponents(cfg, logger, cfg.Output.SaveReports && !c.noSave)

	var progress *service.ProgressManagerImpl
	if !c.noProgress {
		progress = service.NewProgressManager()
		progress.SetWriter(cmd.ErrOrStderr())
	}
	useCase, err := components.DetectUseCase(progress, logger)
	if err != nil {
		return err
	}

	_, err = useCase.Execute(commandContext(cmd), domain.DetectRequest{
		Paths:           args,
		Recursive:       cfg.Input.Recursive,
		IncludePatterns: cfg.Input.IncludePatterns,
		ExcludePatterns: cfg.Input.ExcludePatterns,
		OutputFormat:    domain.OutputFormat(cfg.Output.Format),
		OutputWriter:    cmd.OutOrStdout(),
		OutputPath:      c.outputPath,
		NoColor:         cfg.Output.NoColor,
		Thresholds:      cfg.Analysis.Thresholds(),
		Concurrency:     cfg.Output.Concurrency,
	})
	return err
}

// NewDetectCmd creates and returns the detect cobra command
func NewDetectCmd() *cobra.Command {
	return NewDetectCommand().CreateCobraCommand()
}
