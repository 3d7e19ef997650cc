package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/graphtext/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage engine configuration",
		Long: `Manage the engine configuration file.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. Config file (<root>/graphtext.yaml, or --config)
  3. Environment variables (GRAPHTEXT_*)`,
		Example: `  # Write the resolved configuration to <root>/graphtext.yaml
  graphtext config init

  # Show the effective configuration (merged from all sources)
  graphtext config show`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the resolved configuration to the storage root",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			path := filepath.Join(cfg.Storage.RootDir, config.ConfigFileName)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
			}

			if err := os.MkdirAll(cfg.Storage.RootDir, 0o755); err != nil {
				return fmt.Errorf("failed to create storage root: %w", err)
			}
			if err := cfg.WriteYAML(path); err != nil {
				return err
			}
			renderer(cmd).Successf("wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
