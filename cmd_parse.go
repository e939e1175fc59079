package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sitescrape/internal/fetcher"
)

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringSliceVar(&requiredFlags, "require", nil, "Flags a record must carry to match")
	parseCmd.Flags().StringVarP(&query, "query", "q", "", "Search query recorded with the result")
}

var parseCmd = &cobra.Command{
	Use:   "parse <site|file> <page.html>",
	Short: "Extract a saved HTML page with a site's selectors",
	Long: `Parse runs the site against a local HTML file instead of the network,
which is how selector cascades are checked against a saved copy of a page.
Relative links resolve against the site's first URL.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := resolveSite(args[0])
		if err != nil {
			return err
		}
		if _, err := os.Stat(args[1]); err != nil {
			return fmt.Errorf("page file: %w", err)
		}
		criteria, err := criteriaFor(cmd, site, nil)
		if err != nil {
			return err
		}
		if err := validateOutput(); err != nil {
			return err
		}
		return execute(cmd.Context(), &fetcher.File{Path: args[1]}, site, criteria)
	},
}
