// Package marriott lists the Marriott Bonvoy co-branded credit cards. Card
// markup changes often, so most fields match on text patterns.
package marriott

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
	Name:        "marriott",
	Title:       "Marriott Bonvoy Credit Cards",
	Description: "Card names, welcome offers and annual fees from marriott.com",
	URLs: []string{
		"https://www.marriott.com/credit-cards.mi",
		"https://www.marriott.com/loyalty/redeem/partner/credit-cards.mi",
	},
	Wait: fetcher.Wait{Strategy: fetcher.WaitIdle},
	Items: cascade.MustParseAll(
		"[data-testid='credit-card']",
		".card-item",
		".credit-card",
		".card-container",
		"role:listitem",
	),
	Fields: []extractor.Field{
		{Name: "name", Selectors: cascade.MustParseAll("h2", "h3", ".card-name", ".title")},
		{Name: "tagline", Selectors: cascade.MustParseAll(".tagline", ".subtitle", ".card-subtitle"), Optional: true},
		{
			Name:      "bonus",
			Label:     "Welcome Offer",
			Selectors: cascade.MustParseAll(`text:/\d+,?\d*\s*(Bonus\s*Points|Free\s*Nights?)/i`),
		},
		{
			Name:      "annual_fee",
			Selectors: cascade.MustParseAll(".annual-fee", `text:/\$\d+\s*Annual\s*Fee|No\s*Annual\s*Fee/i`),
			Match:     `(?i)(\$\d+\s*Annual\s*Fee|No\s*Annual\s*Fee)`,
		},
		{
			Name:      "earning",
			Kind:      extractor.KindLines,
			Selectors: cascade.MustParseAll(`text:/\d+X|\d+\s*points/i`),
			Optional:  true,
		},
		{Name: "offer", Label: "Limited Time Offer", Selectors: cascade.MustParseAll(`text:/LIMITED.TIME\s*OFFER/i`), Optional: true},
		{Name: "url", Label: "URL", Kind: extractor.KindURL, Attr: "href", Selectors: cascade.MustParseAll("a[href*='apply']", "role:link[name=Learn More]", "a[href]")},
	},
	Classifiers: []extractor.Classifier{
		{Flag: "business", Keywords: []string{"business"}, Fields: []string{"name"}},
		{Flag: "no_annual_fee", Keywords: []string{"no annual fee"}},
	},
}
