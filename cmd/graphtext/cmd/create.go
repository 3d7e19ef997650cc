package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/graphtext/internal/fulltext"
)

// createOptions holds CLI flags for create.
type createOptions struct {
	entityType string
	properties []string
	analyzer   string
}

func newCreateCmd() *cobra.Command {
	var opts createOptions

	cmd := &cobra.Command{
		Use:   "create <identifier>",
		Short: "Create a full-text index",
		Long: `Create a named full-text index over graph entity properties.

The entity scope, property keys, analyzer profile and partition count are
fixed at creation; changing any of them means dropping and recreating the
index.

Examples:
  graphtext create people --type nodes --property name --property bio
  graphtext create knows --type relationships --property note --analyzer swedish`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, cfg, err := openProvider(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = provider.Close() }()

			// The configured default applies when --analyzer is not given.
			analyzerName := opts.analyzer
			if !cmd.Flags().Changed("analyzer") {
				analyzerName = cfg.Index.DefaultAnalyzer
			}

			entityType := fulltext.EntityType(strings.ToUpper(opts.entityType))
			idx, err := provider.CreateIndex(cmd.Context(), args[0], entityType, opts.properties, analyzerName)
			if err != nil {
				return err
			}
			// Materialize the partition directories so the index is
			// visible on disk before its first write.
			if err := idx.Flush(cmd.Context()); err != nil {
				return err
			}

			desc := idx.Descriptor()
			renderer(cmd).Successf("created %q (%s, analyzer=%s, partitions=%d, properties=%s)",
				desc.Identifier, desc.EntityType, desc.Analyzer, desc.Partitions,
				strings.Join(desc.Properties, ","))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.entityType, "type", "t", "nodes", "Entity scope: nodes or relationships")
	cmd.Flags().StringSliceVarP(&opts.properties, "property", "p", nil, "Property key to index (repeatable)")
	cmd.Flags().StringVarP(&opts.analyzer, "analyzer", "a", "standard", "Analyzer profile: standard, english, swedish")

	return cmd
}
