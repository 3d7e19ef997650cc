package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider, _, err := openProvider(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = provider.Close() }()

			descriptors, err := provider.List()
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(descriptors)
			}

			renderer(cmd).IndexTable(descriptors)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output descriptors as JSON")

	return cmd
}
