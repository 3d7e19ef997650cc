// Package cmd provides the CLI commands for the graphtext engine.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/graphtext/internal/config"
	gterrors "github.com/Aman-CERP/graphtext/internal/errors"
	"github.com/Aman-CERP/graphtext/internal/fulltext"
	"github.com/Aman-CERP/graphtext/internal/logging"
	"github.com/Aman-CERP/graphtext/internal/ui"
	"github.com/Aman-CERP/graphtext/pkg/version"
)

var (
	rootDir    string
	configFile string
	noColor    bool
	debugMode  bool

	loggingCleanup func()
)

// NewRootCmd creates the root command for the graphtext CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphtext",
		Short: "Transactional full-text index engine for graph data",
		Long: `GraphText maintains named, partitioned full-text indexes over graph
entity properties, kept synchronized with committed transactions and
queried through point-in-time snapshot readers.

The storage root holds every index plus the descriptor catalog; pick it
with --root or GRAPHTEXT_ROOT_DIR.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("graphtext version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&rootDir, "root", "", "Storage root directory (default ~/.graphtext/indexes)")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Explicit config file (default <root>/graphtext.yaml)")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.graphtext/logs/")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newApplyCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newDropCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging installs debug logging if the flag is set.
func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}
	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("debug logging enabled", slog.String("log_file", logging.DefaultLogPath()))
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// loadConfig resolves configuration from the --config / --root flags.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		cfg, err := config.LoadFile(configFile)
		if err != nil {
			return nil, err
		}
		if rootDir != "" {
			cfg.Storage.RootDir = rootDir
		}
		return cfg, nil
	}
	return config.Load(rootDir)
}

// openProvider resolves configuration and opens the engine over the
// storage root. The caller must Close the returned provider.
func openProvider(cmd *cobra.Command) (*fulltext.Provider, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	p, err := fulltext.Open(cfg, slog.Default())
	if err != nil {
		return nil, nil, err
	}
	return p, cfg, nil
}

func renderer(cmd *cobra.Command) *ui.Renderer {
	return ui.NewRenderer(cmd.OutOrStdout(), noColor)
}

// Execute runs the root command, printing structured errors to stderr.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, gterrors.FormatForCLI(err))
		return err
	}
	return nil
}
