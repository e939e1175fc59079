// Package carmax lists used cars from CarMax search results.
package carmax

import (
	"sitescrape/internal/cascade"
	"sitescrape/internal/extractor"
	"sitescrape/internal/fetcher"
	"sitescrape/internal/record"
	"sitescrape/internal/scraper"
)

func init() {
	scraper.Register(Site)
}

// filters narrows every search to red 2018-2023 models.
const filters = "yearMin=2018&yearMax=2023&color=Red"

var Site = &scraper.Site{
	Name:        "carmax",
	Title:       "CarMax Car Search",
	Description: "Used car listings from carmax.com",
	URLs: []string{
		"https://www.carmax.com/cars?search={query}&" + filters,
		"https://www.carmax.com/cars/toyota/corolla?" + filters,
		"https://www.carmax.com/cars?" + filters,
	},
	Criteria: record.SearchCriteria{Query: "toyota corolla"},
	Wait:     fetcher.Wait{Strategy: fetcher.WaitIdle},
	Items: cascade.MustParseAll(
		"[data-testid='vehicle-card']",
		"article.car-tile",
		".car-tile",
		".vehicle-card",
		".car-listing",
	),
	Fields: []extractor.Field{
		{Name: "title", Selectors: cascade.MustParseAll(".car-title", ".vehicle-title", "h3", "h4", ".title")},
		{
			Name:      "price",
			Kind:      extractor.KindPrice,
			Selectors: cascade.MustParseAll(".price", ".vehicle-price", ".cost", ".amount", `text:/^\$\d[\d,]*$/`),
		},
		{
			Name:      "mileage",
			Selectors: cascade.MustParseAll(".mileage", ".miles", ".odometer", `text:/\d+K?\s*mi/i`),
			Optional:  true,
		},
		{Name: "url", Label: "URL", Kind: extractor.KindURL, Attr: "href", Selectors: cascade.MustParseAll("a[href*='/car/']", "a[href]")},
	},
	Limit:      20,
	Screenshot: true,
}
