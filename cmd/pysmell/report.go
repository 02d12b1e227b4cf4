package main

import (
	"os"

	"github.com/ludo-technologies/pysmell/app"
	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ReportCommand represents the report command
type ReportCommand struct {
	overrides  config.Overrides
	outputPath string
}

// NewReportCmd creates and returns the report cobra command
func NewReportCmd() *cobra.Command {
	c := &ReportCommand{}
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Show the saved report for an analyzed file",
		Long: `Read back the report that detect saved for a file.

The argument is the analyzed file's path or name; the report is looked up as
<results_dir>/<name>.json. A warning is shown when the file changed since.

Examples:
  pysmell report app.py
  pysmell report app.py --format json`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}
	addOutputFlags(cmd, &c.overrides, &c.outputPath)
	addModelFlags(cmd, &c.overrides)
	return cmd
}

func (c *ReportCommand) run(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg, err := loadConfig(cmd, cwd, c.overrides, false)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	useCase := app.NewComponents(cfg, logger, false).ReportUseCase()
	stored, err := useCase.Show(args[0], domain.OutputFormat(cfg.Output.Format), cmd.OutOrStdout(), c.outputPath)
	if err != nil {
		return err
	}
	if stored.Stale {
		logger.Warn("report is older than the source file", zap.String("file", stored.File))
	}
	return nil
}
