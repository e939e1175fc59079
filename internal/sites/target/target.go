// Package target searches target.com for frozen vegan pizza in a price
// range.
package target

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

// VeganKeywords mark a product title as vegan.
var VeganKeywords = []string{
	"vegan", "plant-based", "plant based", "dairy free", "dairy-free",
	"non-dairy", "non dairy", "cashew", "almond", "coconut", "soy cheese",
	"nutritional yeast", "miyoko", "violife", "daiya", "follow your heart",
	"kite hill", "so delicious",
}

var Site = &scraper.Site{
	Name:        "target",
	Title:       "Target Vegan Pizza Search",
	Description: "Frozen vegan pizzas priced $5 to $10 on target.com",
	URLs:        []string{"https://www.target.com/s?searchTerm={query}"},
	Criteria: record.SearchCriteria{
		Query:    "frozen vegan cheese pizza",
		PriceMin: record.Float(5),
		PriceMax: record.Float(10),
		Require:  []string{"vegan"},
	},
	Wait: fetcher.Wait{Strategy: fetcher.WaitTime, Target: "5000"},
	Items: cascade.MustParseAll(
		"[data-test='@web/site-top-of-funnel/ProductCardWrapper']",
		"[data-test*='product-item']",
		"article[data-test*='product']",
	),
	Fields: []extractor.Field{
		{
			Name: "title",
			Selectors: cascade.MustParseAll(
				"a[data-test='product-title']",
				"h3 a",
				"h2 a",
				"a[href*='/p/']",
			),
		},
		{
			Name: "price",
			Kind: extractor.KindPrice,
			Selectors: cascade.MustParseAll(
				"[data-test='current-price']",
				"[data-test='product-price']",
				"span[aria-label*='$']",
				".price",
				"[class*='price']",
				`text:/\$\d/`,
			),
		},
		{
			Name: "url",
			Kind: extractor.KindURL,
			Attr: "href",
			Selectors: cascade.MustParseAll(
				"a[data-test='product-title']",
				"a[href*='/p/']",
			),
		},
	},
	Classifiers: []extractor.Classifier{
		{Flag: "vegan", Keywords: VeganKeywords, Fields: []string{"title"}},
	},
	Screenshot: true,
}
