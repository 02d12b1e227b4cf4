package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/pysmell/internal/config"
	"github.com/spf13/cobra"
)

// InitCommand represents the init command
type InitCommand struct {
	force bool
	path  string
}

// NewInitCommand creates a new init command
func NewInitCommand() *InitCommand {
	return &InitCommand{path: config.ConfigFileName}
}

// CreateCobraCommand creates the cobra command for configuration initialization
func (i *InitCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize pysmell configuration file",
		Long: `Create a .pysmell.toml file with every setting at its default value,
with comments explaining each one.

Examples:
  # Create .pysmell.toml in the current directory
  pysmell init

  # Overwrite an existing file
  pysmell init --force`,
		Args: cobra.NoArgs,
		RunE: i.runInit,
	}

	cmd.Flags().BoolVar(&i.force, "force", false, "Overwrite existing configuration file")
	cmd.Flags().StringVarP(&i.path, "path", "p", config.ConfigFileName, "Configuration file path")
	return cmd
}

func (i *InitCommand) runInit(cmd *cobra.Command, args []string) error {
	configPath, err := filepath.Abs(i.path)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := config.WriteDefault(configPath, i.force); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", configPath)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit it to adjust thresholds, artifact directories and the linter.")
	return nil
}

// NewInitCmd creates and returns the init cobra command
func NewInitCmd() *cobra.Command {
	return NewInitCommand().CreateCobraCommand()
}
