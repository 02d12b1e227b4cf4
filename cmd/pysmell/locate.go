package main

import (
	"github.com/ludo-technologies/pysmell/app"
	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/config"
	"github.com/ludo-technologies/pysmell/service"
	"github.com/spf13/cobra"
)

// LocateCommand represents the locate command
type LocateCommand struct {
	overrides  config.Overrides
	outputPath string
}

// NewLocateCmd creates and returns the locate cobra command
func NewLocateCmd() *cobra.Command {
	c := &LocateCommand{}
	cmd := &cobra.Command{
		Use:   "locate [paths...]",
		Short: "Find long methods and large classes",
		Long: `Run only the structural detectors, without the classifier or the linter.

Thresholds come from the [locator] section of the configuration
(10 lines per method, 8 methods or 50 lines per class by default).

Examples:
  pysmell locate src/
  pysmell locate app.py --class-methods 5 --format yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.run,
	}

	addOutputFlags(cmd, &c.overrides, &c.outputPath)
	addInputFlags(cmd, &c.overrides)
	addThresholdFlags(cmd, &c.overrides,
		config.DefaultLocatorLongMethodLines, config.DefaultLocatorClassMethods, config.DefaultLocatorClassLines)
	return cmd
}

func (c *LocateCommand) run(cmd *cobra.Command, args []string) error {
	if err := service.NewFileReader().ValidatePaths(args); err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, args[0], c.overrides, true)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	useCase := app.NewComponents(cfg, logger, false).LocateUseCase(logger)
	_, err = useCase.Execute(commandContext(cmd), domain.LocateRequest{
		Paths:           args,
		Recursive:       cfg.Input.Recursive,
		IncludePatterns: cfg.Input.IncludePatterns,
		ExcludePatterns: cfg.Input.ExcludePatterns,
		OutputFormat:    domain.OutputFormat(cfg.Output.Format),
		OutputWriter:    cmd.OutOrStdout(),
		OutputPath:      c.outputPath,
		NoColor:         cfg.Output.NoColor,
		Thresholds:      cfg.Locator.Thresholds(),
	})
	return err
}
