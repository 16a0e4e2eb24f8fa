package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"online-judge/internal/app"
)

// NewHashSecretCmd prints a bcrypt hash for admin.secret_hash.
func NewHashSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-secret <secret>",
		Short: "Print a bcrypt hash of an admin secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := app.HashSecret(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
