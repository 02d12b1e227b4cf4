package main

import (
	"os"

	"github.com/ludo-technologies/pysmell/app"
	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/config"
	"github.com/spf13/cobra"
)

// NewAccuraciesCmd creates and returns the accuracies cobra command
func NewAccuraciesCmd() *cobra.Command {
	var overrides config.Overrides
	var outputPath string

	cmd := &cobra.Command{
		Use:   "accuracies",
		Short: "Show the accuracy of every trained model",
		Long: `Print the model accuracies recorded in <results_dir>/training_summary.txt.
The most accurate model is the one detect uses.

Examples:
  pysmell accuracies
  pysmell accuracies --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				cwd = "."
			}
			cfg, err := loadConfig(cmd, cwd, overrides, false)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			useCase := app.NewComponents(cfg, logger, false).ReportUseCase()
			_, err = useCase.Accuracies(commandContext(cmd), domain.OutputFormat(cfg.Output.Format), cmd.OutOrStdout(), outputPath)
			return err
		},
	}
	addOutputFlags(cmd, &overrides, &outputPath)
	addModelFlags(cmd, &overrides)
	return cmd
}
