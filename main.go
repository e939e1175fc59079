package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"sitescrape/internal/logging"
	_ "sitescrape/internal/sites"
)

var version = "dev"

var (
	outDir       string
	outputFormat string
	engine       string
	proxyURL     string
	showUI       bool
	browserBin   string
	historyDB    string
	logLevel     string
	logFile      string

	logCloser io.Closer = io.NopCloser(nil)
)

var rootCmd = &cobra.Command{
	Use:     "sitescrape",
	Short:   "Scrape sites with selector cascades that survive markup changes",
	Version: version,
	Long: `sitescrape runs site configurations against live pages. Every value is
located through an ordered list of selectors (CSS, ARIA role, visible text
or XPath); the first selector that finds something wins, so a redesign that
breaks one selector degrades the result instead of failing the run.

Each run writes output.md and output.json to --out-dir and prints the
result in --format on stdout.`,
	Example: `  # Vegan pizza between $5 and $10 on Target
  sitescrape run target

  # GameStop stores near a zip code, as JSON
  sitescrape run gamestop 10001 -f json

  # A site described in a file, fetched without a browser
  sitescrape run ./sites/standings.yaml --engine http

  # Re-extract a saved page offline
  sitescrape parse target ./target.html`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		closer, err := logging.Setup(os.Stderr, logging.Options{Level: logLevel, File: logFile})
		if err != nil {
			return err
		}
		logCloser = closer
		return nil
	},
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&outDir, "out-dir", "o", ".", "Directory for output.md, output.json and screenshots")
	flags.StringVarP(&outputFormat, "format", "f", "markdown", "Output format (markdown, json, csv, text, html)")
	flags.StringVarP(&engine, "engine", "e", "auto", "Page engine: auto (browser, falling back to http), browser or http")
	flags.StringVarP(&proxyURL, "proxy", "p", os.Getenv("SITESCRAPE_PROXY"), "Proxy URL (e.g. http://127.0.0.1:7890), defaults to SITESCRAPE_PROXY env var")
	flags.BoolVar(&showUI, "showui", false, "Show browser UI (disable headless mode)")
	flags.StringVar(&browserBin, "browser-bin", os.Getenv("SITESCRAPE_BROWSER"), "Chrome/Chromium binary, defaults to SITESCRAPE_BROWSER or a detected install")
	flags.StringVar(&historyDB, "history-db", envOr("SITESCRAPE_HISTORY_DB", "sitescrape.db"), "SQLite database for run history")
	flags.StringVar(&logLevel, "log-level", envOr("SITESCRAPE_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	flags.StringVar(&logFile, "log-file", "", "Also write JSON logs to this file, rotated at 10 MB")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logCloser.Close()
	if err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
