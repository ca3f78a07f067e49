package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	flags := &convertFlags{}

	rootCmd := &cobra.Command{
		Use:           "zipcoords",
		Short:         "Convert ZIP code gazetteer tables into a JSON coordinate lookup",
		Long:          "Without a subcommand zipcoords runs convert with the configured input and output.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, configFlag, flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	flags.register(rootCmd)

	rootCmd.AddCommand(newConvertCommand(&configFlag))
	rootCmd.AddCommand(newLookupCommand(&configFlag))
	rootCmd.AddCommand(newVerifyCommand(&configFlag))

	return rootCmd
}
