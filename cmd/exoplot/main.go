package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pbaille/exoplot/internal/config"
	"github.com/pbaille/exoplot/internal/domain"
	"github.com/pbaille/exoplot/internal/store"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "exoplot",
		Short: "Fetch and plot the NASA Exoplanet Archive catalog",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger, err := config.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			cmd.SetContext(config.WithLogger(cmd.Context(), logger))
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./exoplot.yaml)")
	rootCmd.PersistentFlags().String("tap-url", "", "TAP sync endpoint")
	rootCmd.PersistentFlags().Duration("timeout", 0, "TAP request timeout (0 waits forever)")
	rootCmd.PersistentFlags().String("cache", "", "catalog cache file (default: exoplanets.csv)")
	rootCmd.PersistentFlags().String("journal", "", "fetch journal database (empty disables it)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text|json)")

	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(plotCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(historyCmd())

	return rootCmd
}

func getStore() (*store.Store, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.Journal), 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	return store.New(cfg.Journal)
}

// record appends run to the fetch journal when one is configured. Journal
// failures never fail the command.
func record(ctx context.Context, run domain.FetchRun) {
	if cfg.Journal == "" {
		return
	}
	logger := config.GetLogger(ctx)

	s, err := getStore()
	if err != nil {
		logger.Warn("fetch journal unavailable", "path", cfg.Journal, "error", err)
		return
	}
	defer s.Close()

	if err := s.RecordFetch(&run); err != nil {
		logger.Warn("record fetch run", "path", cfg.Journal, "error", err)
		return
	}
	logger.Debug("fetch run recorded", "id", run.ID, "command", run.Command)
}
