// Package flightaware compares the AeroAPI pricing tiers.
package flightaware

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
	Name:        "flightaware",
	Title:       "FlightAware AeroAPI Tiers",
	Description: "AeroAPI plans with monthly price and included features",
	URLs: []string{
		"https://www.flightaware.com/commercial/aeroapi/",
		"https://www.flightaware.com/commercial/aeroapi/pricing/",
		"https://www.flightaware.com/commercial/aeroapi/plans/",
		"https://www.flightaware.com/commercial/pricing/",
	},
	Wait: fetcher.Wait{Strategy: fetcher.WaitIdle},
	Items: cascade.MustParseAll(
		"[class*='tier']",
		"[class*='plan']",
		"[class*='pricing'] [class*='column']",
		"[id*='compare'] th",
	),
	Fields: []extractor.Field{
		{Name: "tier", Selectors: cascade.MustParseAll("h2", "h3", "h4", "[class*='name']", "[class*='title']")},
		{
			Name:      "price",
			Kind:      extractor.KindPrice,
			Selectors: cascade.MustParseAll("[class*='price']", `text:/\$\d[\d,]*(\.\d+)?/`, `text:/^Free$/i`),
			Optional:  true,
		},
		{Name: "features", Kind: extractor.KindLines, Selectors: cascade.MustParseAll("li", "p"), Optional: true},
	},
	Limit: 10,
}
