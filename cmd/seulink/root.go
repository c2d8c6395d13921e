package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "seulink",
		Short:         "SeuLink is a link-in-bio profile service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "./configs", "directory containing config.yaml")

	root.AddCommand(
		newServeCmd(&configPath),
		newBotCmd(&configPath),
		newVCardCmd(&configPath),
		newQRCmd(&configPath),
	)
	return root
}
