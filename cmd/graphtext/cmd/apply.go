package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/graphtext/internal/fulltext"
)

func newApplyCmd() *cobra.Command {
	var txID uint64

	cmd := &cobra.Command{
		Use:   "apply [file]",
		Short: "Apply a committed change set from a JSON feed",
		Long: `Apply one committed transaction's property changes to every
registered index. The feed is a JSON array of change tuples, read from
the file argument or stdin:

  [{"entity_id": 1, "entity_type": "NODES", "key": "name", "value": "Alice"}]

A null value marks the property as absent; an entity whose indexed
properties are all absent is removed. The command returns only once
every affected partition has durably applied its mutations.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open feed file: %w", err)
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			var changes []fulltext.PropertyChange
			if err := json.NewDecoder(in).Decode(&changes); err != nil {
				return fmt.Errorf("failed to parse change feed: %w", err)
			}

			provider, _, err := openProvider(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = provider.Close() }()

			if err := provider.ApplyCommit(cmd.Context(), txID, changes); err != nil {
				return err
			}
			renderer(cmd).Successf("applied %d changes (tx %d)", len(changes), txID)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&txID, "tx", 0, "Transaction id recorded in the engine log")

	return cmd
}
