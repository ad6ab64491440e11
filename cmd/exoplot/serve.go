package main

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/pbaille/exoplot/internal/catalog"
	"github.com/pbaille/exoplot/internal/config"
	"github.com/pbaille/exoplot/internal/dashboard"
	"github.com/pbaille/exoplot/internal/domain"
	"github.com/pbaille/exoplot/internal/fetcher"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the interactive exoplanet dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := config.GetLogger(ctx)

			client, err := fetcher.New(cfg.TAP.URL, cfg.TAP.Timeout)
			if err != nil {
				return err
			}

			query := dashboard.Query(cfg.Serve.Limit)
			run := domain.FetchRun{
				Command: "serve",
				Query:   query,
				URL:     client.QueryURL(query, "csv"),
			}
			start := time.Now()
			session, err := loadSession(ctx, client, &run)
			run.Duration = time.Since(start)
			if err != nil {
				run.Error = err.Error()
			}
			record(ctx, run)
			if err != nil {
				return err
			}

			srv := dashboard.NewServer(dashboard.Config{
				Session: session,
				Port:    cfg.Serve.Port,
				Logger:  logger,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Dashboard: http://127.0.0.1:%d (%d planets)\n", cfg.Serve.Port, session.Base.Len())
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().Int("port", 8050, "port to listen on")
	cmd.Flags().Int("limit", 1000, "number of catalog rows to load")

	return cmd
}

// loadSession runs the startup query and builds the dashboard dataset
func loadSession(ctx context.Context, client *fetcher.Client, run *domain.FetchRun) (*dashboard.Session, error) {
	logger := config.GetLogger(ctx)
	logger.Info("loading catalog", "url", client.BaseURL, "query", run.Query)

	body, err := client.Query(ctx, run.Query, "csv")
	run.Bytes = int64(len(body))
	if err != nil {
		return nil, err
	}

	raw, err := catalog.Read(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	run.Rows = len(raw.Records)
	run.Columns = len(raw.Header)
	logger.Info("catalog columns", "count", len(raw.Header), "columns", raw.Header)

	t, err := dashboard.Load(raw)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded", "rows", run.Rows, "kept", t.Len())

	session, err := dashboard.NewSession(t)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return session, nil
}
