package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pbaille/exoplot/internal/textutil"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent catalog fetches from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Journal == "" {
				return errors.New("no journal configured (use --journal or set journal in exoplot.yaml)")
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListFetches(count)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No fetches recorded.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "When", "Command", "Rows", "Bytes", "Took", "Status"})
			for _, r := range runs {
				status := "ok"
				if r.Error != "" {
					status = textutil.Truncate(r.Error, 48)
				}
				t.AppendRow(table.Row{
					r.ID[:8],
					r.FetchedAt.Local().Format("2006-01-02 15:04:05"),
					r.Command,
					r.Rows,
					r.Bytes,
					r.Duration.Round(time.Millisecond),
					status,
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 20, "number of runs to show")

	return cmd
}
