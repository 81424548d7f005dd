package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"voicetrack/config"
	"voicetrack/constant"
	server2 "voicetrack/server"
)

// run executes one synchronous pipeline pass over a project, registering
// any URLs given on the command line first.
func run(cfg *config.Config) *cobra.Command {
	var urls []string

	cmd := &cobra.Command{
		Use:   "run <project>",
		Short: "run the pipeline once for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
			ctx := logger.WithContext(context.Background())

			deps, err := server2.BuildDependencies(cfg)
			if err != nil {
				return err
			}

			projectName := args[0]
			if len(urls) > 0 {
				project, err := deps.Projects.CreateOrGet(ctx, projectName)
				if err != nil {
					return err
				}
				if err := deps.Projects.AddURLs(ctx, project.ProjectID, urls, constant.URLTypeSingle); err != nil {
					return err
				}
			}

			report, err := deps.Pipeline.Run(ctx, projectName)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&urls, "url", nil, "source locator to register before the run (repeatable)")
	return cmd
}
