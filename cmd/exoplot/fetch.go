package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pbaille/exoplot/internal/catalog"
	"github.com/pbaille/exoplot/internal/config"
	"github.com/pbaille/exoplot/internal/domain"
	"github.com/pbaille/exoplot/internal/fetcher"
	"github.com/spf13/cobra"
)

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the planet catalog into the local CSV cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := fetcher.New(cfg.TAP.URL, cfg.TAP.Timeout)
			if err != nil {
				return err
			}

			run := domain.FetchRun{
				Command: "fetch",
				Query:   cfg.Fetch.Query,
				URL:     client.QueryURL(cfg.Fetch.Query, "csv"),
				Path:    cfg.Fetch.Cache,
			}
			start := time.Now()
			err = fetchCache(ctx, cmd.OutOrStdout(), client, &run)
			run.Duration = time.Since(start)
			if err != nil {
				run.Error = err.Error()
			}
			record(ctx, run)
			return err
		},
	}

	cmd.Flags().String("query", "select * from ps", "ADQL query to run")
	cmd.Flags().Int("preview", 5, "number of rows to preview")

	return cmd
}

// fetchCache downloads the catalog to the cache file, then reads it back and
// prints its columns and first rows.
func fetchCache(ctx context.Context, out io.Writer, client *fetcher.Client, run *domain.FetchRun) error {
	logger := config.GetLogger(ctx)
	logger.Info("fetching catalog", "url", client.BaseURL, "query", run.Query)

	n, err := client.FetchToFile(ctx, run.Query, run.Path)
	run.Bytes = n
	if err != nil {
		return err
	}
	logger.Info("catalog saved", "path", run.Path, "bytes", n)

	raw, err := catalog.ReadFile(run.Path)
	if err != nil {
		return err
	}
	run.Rows = len(raw.Records)
	run.Columns = len(raw.Header)

	fmt.Fprintf(out, "Saved %d rows to %s\n", run.Rows, run.Path)
	catalog.Preview(out, raw, cfg.Fetch.Preview)
	return nil
}
