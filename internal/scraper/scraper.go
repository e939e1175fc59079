// Package scraper runs a site configuration end to end: URL cascade,
// extraction, filtering and report writing.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"sitescrape/internal/cascade"
	"sitescrape/internal/extractor"
	"sitescrape/internal/fetcher"
	"sitescrape/internal/output"
	"sitescrape/internal/record"
)

// Content is a rendered result that can be printed in every CLI format.
type Content interface {
	ToHTML() (string, error)
	ToText() (string, error)
	ToMarkdown() (string, error)
	ToJSON() ([]byte, error)
	ToCSV() (string, error)
}

// PostProcessFunc runs after extraction with the page still open. It may
// add fields to records; an error becomes a warning.
type PostProcessFunc func(ctx context.Context, page *fetcher.Page, res *record.RunResult) error

// Site is everything that differs between scraped sites.
type Site struct {
	Name        string `yaml:"name" json:"name"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`

	// URLs are tried in order; {query}, {location} and {arg} are replaced
	// with URL-escaped criteria values.
	URLs []string `yaml:"urls" json:"urls"`
	// Locations are tried in order for templates using {location} when the
	// criteria carry no location.
	Locations []string `yaml:"locations" json:"locations"`
	// ArgName describes the positional argument, e.g. "zip code".
	ArgName string `yaml:"arg_name" json:"arg_name"`
	// DefaultArg is used when no positional argument is given.
	DefaultArg string `yaml:"default_arg" json:"default_arg"`

	Criteria    record.SearchCriteria  `yaml:"criteria" json:"criteria"`
	Wait        fetcher.Wait           `yaml:"wait" json:"wait"`
	Items       []cascade.Selector     `yaml:"items" json:"items"`
	Fields      []extractor.Field      `yaml:"fields" json:"fields"`
	Classifiers []extractor.Classifier `yaml:"classifiers" json:"classifiers"`
	Limit       int                    `yaml:"limit" json:"limit"`
	Screenshot  bool                   `yaml:"screenshot" json:"screenshot"`

	PostProcess PostProcessFunc `yaml:"-" json:"-"`
}

// Validate reports configuration mistakes before any browser is started.
func (s *Site) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("site name is required")
	}
	if len(s.URLs) == 0 {
		return fmt.Errorf("site %s: at least one url is required", s.Name)
	}
	for _, u := range s.URLs {
		if _, err := url.Parse(fill(u, "x", "x", "x")); err != nil {
			return fmt.Errorf("site %s: invalid url %q: %w", s.Name, u, err)
		}
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("site %s: at least one field is required", s.Name)
	}
	seen := map[string]bool{}
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("site %s: field without a name", s.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("site %s: duplicate field %q", s.Name, f.Name)
		}
		seen[f.Name] = true
		if len(f.Selectors) == 0 {
			return fmt.Errorf("site %s: field %s has no selectors", s.Name, f.Name)
		}
		switch f.Kind {
		case "", extractor.KindText, extractor.KindPrice, extractor.KindURL, extractor.KindHTML,
			extractor.KindTable, extractor.KindHours, extractor.KindLines:
		default:
			return fmt.Errorf("site %s: field %s has unknown kind %q", s.Name, f.Name, f.Kind)
		}
		if f.Kind == extractor.KindURL && f.Attr == "" {
			return fmt.Errorf("site %s: url field %s needs attr", s.Name, f.Name)
		}
	}
	for _, c := range s.Classifiers {
		if c.Flag == "" || len(c.Keywords) == 0 {
			return fmt.Errorf("site %s: classifier needs a flag and keywords", s.Name)
		}
	}
	c := s.Criteria
	if c.PriceMin != nil && c.PriceMax != nil && *c.PriceMin > *c.PriceMax {
		return fmt.Errorf("site %s: price_min %.2f exceeds price_max %.2f", s.Name, *c.PriceMin, *c.PriceMax)
	}
	return s.Wait.Validate()
}

// Overrides are criteria given on the command line; zero values keep the
// site defaults.
type Overrides struct {
	Query    string
	Location string
	Arg      string
	PriceMin *float64
	PriceMax *float64
	Require  []string
}

// CriteriaWith merges o into the site's default criteria.
func (s *Site) CriteriaWith(o Overrides) record.SearchCriteria {
	c := s.Criteria
	if o.Query != "" {
		c.Query = o.Query
	}
	if o.Location != "" {
		c.Location = o.Location
	}
	c.Arg = s.DefaultArg
	if o.Arg != "" {
		c.Arg = o.Arg
	}
	if o.PriceMin != nil {
		c.PriceMin = o.PriceMin
	}
	if o.PriceMax != nil {
		c.PriceMax = o.PriceMax
	}
	if o.Require != nil {
		c.Require = o.Require
	}
	return c
}

// Candidates expands the URL templates for c, in order, without duplicates.
func (s *Site) Candidates(c record.SearchCriteria) []string {
	locations := []string{c.Location}
	if c.Location == "" && len(s.Locations) > 0 {
		locations = s.Locations
	}

	var out []string
	seen := map[string]bool{}
	for _, tmpl := range s.URLs {
		locs := locations
		if !strings.Contains(tmpl, "{location}") {
			locs = locations[:1]
		}
		for _, loc := range locs {
			u := fill(tmpl, c.Query, loc, c.Arg)
			if !seen[u] {
				seen[u] = true
				out = append(out, u)
			}
		}
	}
	return out
}

func fill(tmpl, query, location, arg string) string {
	return strings.NewReplacer(
		"{query}", url.QueryEscape(query),
		"{location}", url.QueryEscape(location),
		"{arg}", url.QueryEscape(arg),
	).Replace(tmpl)
}

// Extractor builds the extractor for a page opened at baseURL.
func (s *Site) Extractor(baseURL string) *extractor.Extractor {
	return &extractor.Extractor{
		BaseURL:     baseURL,
		Items:       s.Items,
		Fields:      s.Fields,
		Classifiers: s.Classifiers,
		Limit:       s.Limit,
	}
}

// Report wraps res with the site's presentation.
func (s *Site) Report(res record.RunResult) *output.Report {
	r := &output.Report{Result: res}
	for _, f := range s.Fields {
		r.Columns = append(r.Columns, output.Column{
			Name:  f.Name,
			Label: f.DisplayLabel(),
			List:  f.Kind == extractor.KindLines,
		})
	}
	for _, c := range s.Classifiers {
		r.Flags = append(r.Flags, output.Column{
			Name:  c.Flag,
			Label: extractor.Field{Name: c.Flag}.DisplayLabel(),
		})
	}
	return r
}
