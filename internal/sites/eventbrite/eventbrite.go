// Package eventbrite collects event-planning tips from Eventbrite's
// resource hub.
package eventbrite

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
	Name:        "eventbrite",
	Title:       "Eventbrite Event Planning Tips",
	Description: "Guides and tips from the Eventbrite resource hub",
	URLs: []string{
		"https://www.eventbrite.com/resources/",
		"https://www.eventbrite.com/blog/",
	},
	Wait: fetcher.Wait{Strategy: fetcher.WaitIdle},
	Items: cascade.MustParseAll(
		"[data-testid*='resource']",
		".resource-card",
		".guide-card",
		".tip-card",
		"article",
		".content-card",
		"[class*='resource']",
		"[class*='guide']",
	),
	Fields: []extractor.Field{
		{Name: "title", Selectors: cascade.MustParseAll("h2", "h3", "h4", "a")},
		{Name: "summary", Selectors: cascade.MustParseAll("p", "[class*='description']", "[class*='excerpt']"), Optional: true},
		{Name: "url", Label: "URL", Kind: extractor.KindURL, Attr: "href", Selectors: cascade.MustParseAll("a[href]")},
	},
	Classifiers: []extractor.Classifier{
		{
			Flag:     "planning",
			Keywords: []string{"tip", "guide", "plan", "organize", "create", "manage", "strategy"},
		},
	},
	Limit: 15,
}
