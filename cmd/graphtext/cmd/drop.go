package cmd

import (
	"github.com/spf13/cobra"
)

func newDropCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drop <identifier>",
		Short: "Drop an index and delete its storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, _, err := openProvider(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = provider.Close() }()

			if err := provider.Drop(cmd.Context(), args[0]); err != nil {
				return err
			}
			renderer(cmd).Successf("dropped %q", args[0])
			return nil
		},
	}

	return cmd
}
