// Package foxsports reads the MLS standings table. The table is in the
// server-rendered HTML, so the http engine works when no browser is
// installed.
package foxsports

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
	Name:        "foxsports",
	Title:       "MLS Standings",
	Description: "Current MLS standings from foxsports.com",
	URLs:        []string{"https://www.foxsports.com/soccer/mls/standings"},
	Wait:        fetcher.Wait{Strategy: fetcher.WaitElement, Target: "table", TimeoutMS: 10000},
	Fields: []extractor.Field{
		{Name: "heading", Selectors: cascade.MustParseAll("h1", "text:LIVE STANDINGS", "title")},
		{
			Name:      "standings",
			Kind:      extractor.KindTable,
			Selectors: cascade.MustParseAll("table.data-table", "table", "role:table"),
		},
	},
}
