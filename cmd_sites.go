package main

import (
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"sitescrape/internal/scraper"
)

func init() {
	rootCmd.AddCommand(sitesCmd)
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the built-in sites",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		t := newTable()
		t.AppendHeader(table.Row{"Site", "Title", "Arg", "URLs", "Description"})
		for _, s := range scraper.Sites() {
			arg := s.ArgName
			if s.DefaultArg != "" {
				arg += " (" + s.DefaultArg + ")"
			}
			t.AppendRow(table.Row{s.Name, s.Title, strings.TrimSpace(arg), len(s.URLs), s.Description})
		}
		t.Render()
	},
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
