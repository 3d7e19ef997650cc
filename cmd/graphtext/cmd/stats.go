package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// indexStats is the stats row for one index.
type indexStats struct {
	Identifier string `json:"identifier"`
	EntityType string `json:"entity_type"`
	Partitions int    `json:"partitions"`
	Documents  uint64 `json:"documents"`
}

func newStatsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-index document counts",
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

			rows := make([]indexStats, 0, len(descriptors))
			for _, desc := range descriptors {
				idx, err := provider.Lookup(desc.Identifier, desc.EntityType)
				if err != nil {
					return err
				}
				count, err := idx.DocCount()
				if err != nil {
					return err
				}
				rows = append(rows, indexStats{
					Identifier: desc.Identifier,
					EntityType: string(desc.EntityType),
					Partitions: desc.Partitions,
					Documents:  count,
				})
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			for _, row := range rows {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-24s %-14s partitions=%d documents=%d\n",
					row.Identifier, row.EntityType, row.Partitions, row.Documents)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output stats as JSON")

	return cmd
}
