package cmd

import (
	"github.com/spf13/cobra"

	"voicetrack/config"
)

func Root(config *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{}
	rootCmd.AddCommand(server(config))
	rootCmd.AddCommand(run(config))
	return rootCmd
}
