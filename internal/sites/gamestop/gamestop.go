// Package gamestop finds GameStop stores near a zip code with their phone,
// address, open status and weekly hours.
package gamestop

import (
	"context"
	"fmt"
	"strings"

	"sitescrape/internal/cascade"
	"sitescrape/internal/dom"
	"sitescrape/internal/extractor"
	"sitescrape/internal/fetcher"
	"sitescrape/internal/normalize"
	"sitescrape/internal/record"
	"sitescrape/internal/scraper"
)

func init() {
	scraper.Register(Site)
}

var items = cascade.MustParseAll(
	"[data-store-id]",
	".store-result",
	".store-item",
	".location-item",
	"[data-testid*='store']",
)

var Site = &scraper.Site{
	Name:        "gamestop",
	Title:       "GameStop Store Locator",
	Description: "GameStop stores near a zip code",
	URLs: []string{
		"https://www.gamestop.com/stores/?postalCode={arg}&showMap=true&horizontalView=true&isForm=true",
		"https://www.gamestop.com/stores/?q={arg}",
	},
	ArgName:    "zip code",
	DefaultArg: "90028",
	Wait:       fetcher.Wait{Strategy: fetcher.WaitElement, Target: "[data-store-id]", TimeoutMS: 15000},
	Items:      items,
	Fields: []extractor.Field{
		{Name: "name", Selectors: cascade.MustParseAll(".store-name", "h2", "h3", "a[href*='/store/']")},
		{
			Name:      "phone",
			Selectors: cascade.MustParseAll("a[href^='tel:']", `text:/\(\d{3}\)\s*\d{3}-\d{4}/`),
			Match:     `\(\d{3}\)\s*\d{3}-\d{4}`,
			Optional:  true,
		},
		{Name: "address", Selectors: cascade.MustParseAll(".store-address", "address"), Optional: true},
		{Name: "status", Selectors: cascade.MustParseAll(`text:/^(open|closed) until/i`), Optional: true},
		{Name: "hours", Kind: extractor.KindHours, Selectors: cascade.MustParseAll(".store-hours", "[class*='hours']"), Optional: true},
	},
	PostProcess: fillFromStoreText,
}

// Store is what the plain text of a store card yields.
type Store struct {
	Name    string
	Phone   string
	Address string
	Status  string
	Hours   normalize.WeeklyHours
}

// addressEnd are the lines that follow the address on a store card.
var addressEnd = map[string]bool{"Get Directions": true, "Store Details": true, "HOURS": true}

// ParseStore reads a store card laid out as name, phone, address lines,
// then links and hours. Cards shorter than three lines are not stores.
func ParseStore(text string) (Store, bool) {
	lines := normalize.Lines(text)
	if len(lines) < 3 {
		return Store{}, false
	}

	s := Store{Name: lines[0], Hours: normalize.ParseWeeklyHours(text)}
	phoneAt := -1
	for i, line := range lines {
		if phone, ok := normalize.ParsePhone(line); ok && strings.HasPrefix(line, phone) {
			s.Phone, phoneAt = phone, i
			break
		}
	}
	if phoneAt >= 0 {
		var address []string
		for _, line := range lines[phoneAt+1:] {
			if addressEnd[line] {
				break
			}
			address = append(address, line)
		}
		s.Address = strings.Join(address, ", ")
	}
	for _, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "open until") || strings.Contains(lower, "closed until") {
			s.Status = line
			break
		}
	}
	return s, true
}

// fillFromStoreText completes fields the selectors missed from the card
// text, which keeps the same layout across markup changes.
func fillFromStoreText(ctx context.Context, page *fetcher.Page, res *record.RunResult) error {
	found := dom.Resolve(ctx, page.Root, items, dom.HasText)
	if !found.Found() {
		return nil
	}

	var noPhone int
	for i := range res.Records {
		rec := &res.Records[i]
		idx := rec.Position - 1
		if idx < 0 || idx >= len(found.Matches) {
			continue
		}
		text, err := found.Matches[idx].Text()
		if err != nil {
			continue
		}
		store, ok := ParseStore(text)
		if !ok {
			continue
		}

		fill(rec, "name", store.Name)
		fill(rec, "phone", store.Phone)
		fill(rec, "address", store.Address)
		fill(rec, "status", store.Status)
		if len(rec.Hours) == 0 && len(store.Hours) > 0 {
			rec.Hours = store.Hours
			rec.SetString("hours", extractor.FormatHours(store.Hours))
		}
		if _, ok := rec.Get("phone"); !ok {
			noPhone++
		}
	}

	if noPhone > 0 {
		return fmt.Errorf("%d of %d stores without a phone number", noPhone, len(res.Records))
	}
	return nil
}

func fill(rec *record.Record, name, value string) {
	if _, ok := rec.Get(name); ok || value == "" {
		return
	}
	rec.SetString(name, value)
}
