package cli

import (
	"context"

	"github.com/spf13/cobra"
	"online-judge/internal/transport/console"
)

// NewConsoleCmd runs the interactive text menu on stdin/stdout.
func NewConsoleCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Run the interactive text menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			rt, err := bootstrap(ctx, *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			return console.New(rt.service, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
		},
	}
}
