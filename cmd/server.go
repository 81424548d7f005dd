package cmd

import (
	"github.com/spf13/cobra"

	"voicetrack/config"
	server2 "voicetrack/server"
)

func server(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "start the queue worker and http server",
		Run: func(cmd *cobra.Command, args []string) {
			server2.RunHttp(config)
		},
	}
}
