package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/handiism/static-gallery/internal/config"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "static-gallery",
		Short:         "Generate static picture galleries",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Flag mistakes are configuration errors.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", config.ErrInvalid, err)
	})

	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

// applyChanged runs apply when the named flag was set on the command line.
func applyChanged(fs *pflag.FlagSet, name string, apply func()) {
	if fs.Changed(name) {
		apply()
	}
}
