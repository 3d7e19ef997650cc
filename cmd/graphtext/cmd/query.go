package cmd

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/graphtext/internal/fulltext"
)

// queryOptions holds CLI flags for query.
type queryOptions struct {
	entityType string
	format     string // "text", "json"
}

func newQueryCmd() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query <identifier> <text>",
		Short: "Query an index for matching entity ids",
		Long: `Query an index with free text. The text is analyzed with the index's
own analyzer profile; entities whose indexed properties contain any
resulting term are reported once each, without ranking.

Examples:
  graphtext query people "hello again"
  graphtext query knows tomte --type relationships --format json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, _, err := openProvider(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = provider.Close() }()

			identifier := args[0]
			text := strings.Join(args[1:], " ")
			entityType := fulltext.EntityType(strings.ToUpper(opts.entityType))

			start := time.Now()
			ids, err := provider.Query(cmd.Context(), identifier, entityType, text)
			if err != nil {
				return err
			}
			took := time.Since(start)

			if opts.format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				return enc.Encode(struct {
					Index    string   `json:"index"`
					Entities []uint64 `json:"entities"`
					TookMS   float64  `json:"took_ms"`
				}{identifier, ids, float64(took.Microseconds()) / 1000})
			}

			renderer(cmd).QueryResults(identifier, ids, took)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.entityType, "type", "t", "nodes", "Entity scope: nodes or relationships")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}
