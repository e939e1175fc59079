// Package mta lists the Brooklyn neighborhood maps published by the MTA,
// one per station.
package mta

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"sitescrape/internal/cascade"
	"sitescrape/internal/extractor"
	"sitescrape/internal/fetcher"
	"sitescrape/internal/record"
	"sitescrape/internal/scraper"
)

func init() {
	scraper.Register(Site)
}

const mapsField = "maps"

// stationRe matches a station name followed by its subway lines, e.g.
// "Atlantic Av-Barclays Ctr (2)(3)(4)(5)(B)(Q)".
var stationRe = regexp.MustCompile(`^[^<>()]+(\([A-Z0-9]\))+$`)

var Site = &scraper.Site{
	Name:        "mta",
	Title:       "MTA Brooklyn Neighborhood Maps",
	Description: "Stations with a downloadable Brooklyn neighborhood map",
	URLs: []string{
		"https://new.mta.info/maps/neighborhood-maps/brooklyn",
		"https://www.mta.info/maps/neighborhood-maps/brooklyn",
	},
	Wait: fetcher.Wait{Strategy: fetcher.WaitTime, Target: "3000"},
	Fields: []extractor.Field{
		{Name: "heading", Selectors: cascade.MustParseAll("h1", "title"), Optional: true},
		{
			Name:  mapsField,
			Label: "Neighborhood Maps",
			Kind:  extractor.KindLines,
			Selectors: cascade.MustParseAll(
				`button`,
				`a[href$='.pdf']`,
				`text:/\([A-Z0-9]\)\s*$/`,
			),
		},
	},
	PostProcess: cleanStations,
}

// cleanStations keeps only station lines, strips the download icon glyph
// and removes duplicates in page order.
func cleanStations(_ context.Context, _ *fetcher.Page, res *record.RunResult) error {
	for i := range res.Records {
		rec := &res.Records[i]
		raw, ok := rec.Get(mapsField)
		if !ok {
			continue
		}
		stations := Stations(raw)
		if len(stations) == 0 {
			rec.Set(mapsField, nil)
			return fmt.Errorf("no station names among %d map entries", strings.Count(raw, "\n")+1)
		}
		rec.SetString(mapsField, strings.Join(stations, "\n"))
	}
	return nil
}

// Stations filters newline-separated entries down to unique station names.
func Stations(raw string) []string {
	var out []string
	seen := map[string]bool{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(line), "\ue900 \t"))
		if len(line) < 4 || len(line) > 100 || !stationRe.MatchString(line) || seen[line] {
			continue
		}
		seen[line] = true
		out = append(out, line)
	}
	return out
}
