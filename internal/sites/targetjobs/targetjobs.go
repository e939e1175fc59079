// Package targetjobs searches Target's career site. The location filter is
// tried in the spellings the job board has accepted.
package targetjobs

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

var Site = &scraper.Site{
	Name:        "target-jobs",
	Title:       "Target Job Search",
	Description: "Human Resources openings at Target in Miami, FL",
	URLs: []string{
		"https://corporate.target.com/careers/job-search?query={query}&location={location}",
		"https://jobs.target.com/search-jobs/{query}/{location}",
		"https://corporate.target.com/careers/job-search?query={query}",
	},
	Locations: []string{"Miami, FL", "Miami, Florida", "Miami"},
	Criteria:  record.SearchCriteria{Query: "Human Resources"},
	Wait:      fetcher.Wait{Strategy: fetcher.WaitIdle},
	Items: cascade.MustParseAll(
		"[role='article']",
		".job-card",
		".job-listing",
		"li:has(a[href*='/Jobs/'])",
		"li:has(a[href*='/job/'])",
	),
	Fields: []extractor.Field{
		{Name: "title", Selectors: cascade.MustParseAll("h2", "h3", "a[href*='/Jobs/']", "a[href*='/job/']")},
		{
			Name:      "location",
			Selectors: cascade.MustParseAll("[class*='location']", `text:/^[A-Z][\w .'-]+,\s*[A-Z]{2}$/`),
		},
		{
			Name:      "job_type",
			Label:     "Job Type",
			Selectors: cascade.MustParseAll("[class*='type']", `text:/^(Store Hourly|Corporate|Part-time|Full-time|Distribution Center)$/i`),
			Optional:  true,
		},
		{
			Name:      "url",
			Label:     "URL",
			Kind:      extractor.KindURL,
			Attr:      "href",
			Selectors: cascade.MustParseAll("a[href*='/Jobs/']", "a[href*='/job/']", "a[href]"),
		},
	},
	Limit: 25,
}
