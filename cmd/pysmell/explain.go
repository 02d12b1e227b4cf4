package main

import (
	"os"

	"github.com/ludo-technologies/pysmell/app"
	"github.com/ludo-technologies/pysmell/internal/config"
	"github.com/ludo-technologies/pysmell/internal/explain"
	"github.com/ludo-technologies/pysmell/service"
	"github.com/spf13/cobra"
)

// ExplainCommand represents the explain command
type ExplainCommand struct {
	overrides config.Overrides
	code      string
	mode      string
	smell     string
}

// NewExplainCmd creates and returns the explain cobra command
func NewExplainCmd() *cobra.Command {
	c := &ExplainCommand{}
	cmd := &cobra.Command{
		Use:   "explain [file]",
		Short: "Ask an AI model to explain, optimize or refactor code",
		Long: `Send a Python file or snippet to the configured AI provider.

Modes:
  explain   describe what the code does and point out issues (default)
  optimize  return a cleaner, more efficient version
  refactor  return a version without the named smell (--smell)

The API key is read from OPENAI_API_KEY or ANTHROPIC_API_KEY, or the variable
named by ai.api_key_env in the configuration.

Examples:
  pysmell explain app.py
  pysmell explain --code "x = [i for i in range(10)]" --mode optimize
  pysmell explain app.py --mode refactor --smell LongMethod --provider anthropic`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.run,
	}
	cmd.Flags().StringVar(&c.code, "code", "", "Code snippet to send instead of a file")
	cmd.Flags().StringVarP(&c.mode, "mode", "m", "explain", "One of explain, optimize, refactor")
	cmd.Flags().StringVar(&c.smell, "smell", "", "Smell to fix in refactor mode")
	cmd.Flags().StringVar(&c.overrides.AIProvider, config.FlagProvider, config.DefaultAIProvider, "AI provider: openai or anthropic")
	cmd.Flags().StringVar(&c.overrides.AIModel, config.FlagModel, "", "Model name (provider default when empty)")
	return cmd
}

func (c *ExplainCommand) run(cmd *cobra.Command, args []string) error {
	mode, err := explain.ParseMode(c.mode)
	if err != nil {
		return err
	}
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

	explainer, err := app.NewExplainer(cfg, logger)
	if err != nil {
		return err
	}

	in := app.ExplainInput{
		Code:         c.code,
		Mode:         mode,
		Smell:        c.smell,
		OutputWriter: cmd.OutOrStdout(),
	}
	if len(args) == 1 {
		in.FilePath = args[0]
	}
	_, err = app.NewExplainUseCase(explainer, service.NewFileReader()).Execute(commandContext(cmd), in)
	return err
}
