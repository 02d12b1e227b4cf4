package main

import (
	"fmt"

	"github.com/ludo-technologies/pysmell/internal/version"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates and returns the version cobra command
func NewVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the version, build commit, build date, Go version and platform.
Use --short to print only the version number.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version.Short())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Show only version number")
	return cmd
}
