package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sitescrape/internal/browser"
	"sitescrape/internal/fetcher"
	"sitescrape/internal/formatter"
	"sitescrape/internal/history"
	"sitescrape/internal/record"
	"sitescrape/internal/scraper"
)

var (
	query         string
	location      string
	minPrice      float64
	maxPrice      float64
	requiredFlags []string
	strict        bool
	recordHistory bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.StringVarP(&query, "query", "q", "", "Search query, replaces the site default")
	flags.StringVarP(&location, "location", "L", "", "Location, replaces the site's location variants")
	flags.Float64Var(&minPrice, "min-price", 0, "Lowest matching price")
	flags.Float64Var(&maxPrice, "max-price", 0, "Highest matching price")
	flags.StringSliceVar(&requiredFlags, "require", nil, "Flags a record must carry to match (e.g. vegan)")
	flags.BoolVar(&strict, "strict", false, "Exit with status 1 when the run fails")
	flags.BoolVar(&recordHistory, "history", false, "Record the run in the history database")
}

var runCmd = &cobra.Command{
	Use:   "run <site|file> [arg]",
	Short: "Run a built-in site or a site file",
	Long: `Run navigates the site's URL cascade, extracts records, filters them by
the search criteria and writes the report. The optional [arg] fills the
{arg} placeholder of the site's URLs, e.g. a zip code.

A run that fails still writes its report with the stage it reached. It
exits 0 unless --strict is set.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := resolveSite(args[0])
		if err != nil {
			return err
		}
		criteria, err := criteriaFor(cmd, site, args[1:])
		if err != nil {
			return err
		}
		if err := validateOutput(); err != nil {
			return err
		}

		src, err := fetcher.NewSource(sourceOptions())
		if err != nil {
			return fmt.Errorf("failed to start %s engine: %w", engine, err)
		}
		defer src.Close()

		return execute(cmd.Context(), src, site, criteria)
	},
}

// execute runs site, records and prints the result. It is shared with the
// parse command.
func execute(ctx context.Context, src fetcher.Source, site *scraper.Site, criteria record.SearchCriteria) error {
	res := scraper.Run(ctx, src, site, criteria, scraper.RunOptions{OutDir: outDir})

	if recordHistory {
		if err := saveHistory(ctx, res); err != nil {
			slog.WarnContext(ctx, "failed to record history", "err", err)
		}
	}

	if err := formatter.Write(os.Stdout, site.Report(res), outputFormat); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if strict && !res.Success {
		return fmt.Errorf("run failed at %s: %s", res.Stage, res.Error)
	}
	return nil
}

func saveHistory(ctx context.Context, res record.RunResult) error {
	store, err := history.Open(ctx, historyDB)
	if err != nil {
		return err
	}
	defer store.Close()
	id, err := store.Record(ctx, res)
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "run recorded", "id", id, "db", historyDB)
	return nil
}

// resolveSite finds a registered site by name, or loads a site file.
func resolveSite(name string) (*scraper.Site, error) {
	if site, ok := scraper.Get(name); ok {
		return site, nil
	}
	if _, err := os.Stat(name); err == nil {
		return scraper.LoadFile(name)
	}

	names := make([]string, 0)
	for _, s := range scraper.Sites() {
		names = append(names, s.Name)
	}
	return nil, fmt.Errorf("unknown site %q (built-in: %s; or pass a .yaml/.json5 file)", name, strings.Join(names, ", "))
}

func criteriaFor(cmd *cobra.Command, site *scraper.Site, args []string) (record.SearchCriteria, error) {
	o := scraper.Overrides{
		Query:    query,
		Location: location,
		Require:  requiredFlags,
	}
	if len(args) > 0 {
		o.Arg = args[0]
	}
	if cmd.Flags().Changed("min-price") {
		o.PriceMin = record.Float(minPrice)
	}
	if cmd.Flags().Changed("max-price") {
		o.PriceMax = record.Float(maxPrice)
	}

	c := site.CriteriaWith(o)
	if c.PriceMin != nil && c.PriceMax != nil && *c.PriceMin > *c.PriceMax {
		return c, fmt.Errorf("--min-price %.2f exceeds --max-price %.2f", *c.PriceMin, *c.PriceMax)
	}
	return c, nil
}

func validateOutput() error {
	for _, f := range formatter.Formats {
		if strings.EqualFold(f, outputFormat) {
			return nil
		}
	}
	switch strings.ToLower(outputFormat) {
	case "md", "txt":
		return nil
	}
	return fmt.Errorf("invalid output format: %s", outputFormat)
}

func sourceOptions() fetcher.Options {
	return fetcher.Options{
		Engine: fetcher.Engine(engine),
		Browser: browser.Config{
			ProxyURL: proxyURL,
			Headless: !showUI,
			Bin:      browserBin,
		},
		Static: fetcher.StaticConfig{
			ProxyURL: proxyURL,
			Retries:  1,
		},
	}
}
