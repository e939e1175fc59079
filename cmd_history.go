package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"sitescrape/internal/formatter"
	"sitescrape/internal/history"
	"sitescrape/internal/output"
	"sitescrape/internal/scraper"
)

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
}

var historyCmd = &cobra.Command{
	Use:   "history [site]",
	Short: "Show recorded runs, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var site string
		if len(args) > 0 {
			site = args[0]
		}

		store, err := history.Open(cmd.Context(), historyDB)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Recent(cmd.Context(), site, historyLimit)
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Started", "Site", "Stage", "Items", "Matches", "Warnings", "Error"})
		for _, r := range runs {
			stage := text.FgGreen.Sprint(r.Stage)
			if !r.Success {
				stage = text.FgRed.Sprint(r.Stage)
			}
			t.AppendRow(table.Row{
				r.ID,
				r.StartedAt.Local().Format(time.DateTime),
				r.Site,
				stage,
				r.Total,
				r.Matches,
				r.Warnings,
				text.Trim(r.Error, 60),
			})
		}
		t.Render()
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the stored result of a recorded run in --format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q", args[0])
		}
		return showRun(cmd.Context(), os.Stdout, id)
	},
}

// showRun writes run id from the history database to w. Registered sites
// keep their column labels; runs of site files use the stored field order.
func showRun(ctx context.Context, w io.Writer, id int64) error {
	store, err := history.Open(ctx, historyDB)
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := store.Result(ctx, id)
	if err != nil {
		return err
	}

	report := &output.Report{Result: res}
	if site, ok := scraper.Get(res.Site); ok {
		report = site.Report(res)
	}
	return formatter.Write(w, report, outputFormat)
}
