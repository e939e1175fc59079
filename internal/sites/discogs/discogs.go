// Package discogs captures the Discogs submission guidelines page.
package discogs

import (
	"sitescrape/internal/cascade"
	"sitescrape/internal/extractor"
	"sitescrape/internal/fetcher"
	"sitescrape/internal/scraper"
)

func init() {
	scraper.Register(Site)
}

var Site = &scraper.Site{
	Name:        "discogs",
	Title:       "Discogs Submissions",
	Description: "Discogs database submission page and guidelines",
	URLs: []string{
		"https://www.discogs.com/submissions",
		"https://support.discogs.com/hc/en-us/sections/360001566193-Database-Guidelines",
	},
	Wait: fetcher.Wait{Strategy: fetcher.WaitTime, Target: "5000"},
	Fields: []extractor.Field{
		{Name: "heading", Selectors: cascade.MustParseAll("h1", "role:heading", "title")},
		{
			Name:      "content",
			Kind:      extractor.KindHTML,
			Selectors: cascade.MustParseAll("main", "article", "#content", "[role='main']"),
		},
		{Name: "links", Kind: extractor.KindLines, Selectors: cascade.MustParseAll("main a[href*='guideline']", "a[href*='submission']"), Optional: true},
	},
}
