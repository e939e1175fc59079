package scraper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitescrape/internal/cascade"
	"sitescrape/internal/extractor"
	"sitescrape/internal/record"
)

func TestCandidates(t *testing.T) {
	site := &Site{
		URLs: []string{
			"https://jobs.example/search?q={query}&loc={location}",
			"https://jobs.example/search?q={query}",
			"https://jobs.example/search?q={query}",
		},
		Locations: []string{"New York, NY", "Brooklyn"},
	}

	got := site.Candidates(record.SearchCriteria{Query: "retail"})
	assert.Equal(t, []string{
		"https://jobs.example/search?q=retail&loc=New+York%2C+NY",
		"https://jobs.example/search?q=retail&loc=Brooklyn",
		"https://jobs.example/search?q=retail",
	}, got)

	got = site.Candidates(record.SearchCriteria{Query: "retail", Location: "Queens"})
	assert.Equal(t, []string{
		"https://jobs.example/search?q=retail&loc=Queens",
		"https://jobs.example/search?q=retail",
	}, got)
}

func TestCriteriaWith(t *testing.T) {
	site := &Site{
		DefaultArg: "90028",
		Criteria:   record.SearchCriteria{Query: "vegan pizza", PriceMin: record.Float(5), PriceMax: record.Float(10)},
	}

	c := site.CriteriaWith(Overrides{})
	assert.Equal(t, "vegan pizza", c.Query)
	assert.Equal(t, "90028", c.Arg)

	c = site.CriteriaWith(Overrides{Query: "pizza", Arg: "11201", PriceMax: record.Float(20)})
	assert.Equal(t, "pizza", c.Query)
	assert.Equal(t, "11201", c.Arg)
	assert.InDelta(t, 5.0, *c.PriceMin, 1e-9)
	assert.InDelta(t, 20.0, *c.PriceMax, 1e-9)
	assert.InDelta(t, 10.0, *site.Criteria.PriceMax, 1e-9, "site defaults are not modified")
}

func TestValidate(t *testing.T) {
	valid := func() *Site {
		return &Site{
			Name:   "ok",
			URLs:   []string{"https://example.com"},
			Fields: []extractor.Field{{Name: "title", Selectors: cascade.MustParseAll("h1")}},
		}
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(s *Site){
		"no name":        func(s *Site) { s.Name = "" },
		"no urls":        func(s *Site) { s.URLs = nil },
		"no fields":      func(s *Site) { s.Fields = nil },
		"duplicate":      func(s *Site) { s.Fields = append(s.Fields, s.Fields[0]) },
		"no selectors":   func(s *Site) { s.Fields[0].Selectors = nil },
		"bad kind":       func(s *Site) { s.Fields[0].Kind = "colour" },
		"url needs attr": func(s *Site) { s.Fields[0].Kind = extractor.KindURL },
		"price bounds":   func(s *Site) { s.Criteria.PriceMin, s.Criteria.PriceMax = record.Float(10), record.Float(5) },
		"bad wait":       func(s *Site) { s.Wait.Strategy = "element" },
		"bad classifier": func(s *Site) { s.Classifiers = []extractor.Classifier{{Flag: "vegan"}} },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			s := valid()
			mutate(s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pizza.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
title: Vegan Pizza Search
urls:
  - https://www.target.com/s?searchTerm={query}
criteria:
  query: vegan pizza
  price_min: 5
  price_max: 10
  require: [vegan, pizza]
wait:
  strategy: element
  target: "[data-test='product-title']"
  timeout_ms: 15000
items:
  - "[data-test='@web/site-top-of-funnel/ProductCardWrapper']"
  - role:listitem
fields:
  - name: title
    selectors: ["[data-test='product-title']", "text:/pizza/i"]
  - name: price
    kind: price
    selectors: ["[data-test='current-price']"]
classifiers:
  - flag: vegan
    keywords: [vegan, plant-based]
`), 0o644))

	site, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "pizza", site.Name, "name defaults to the file name")
	assert.InDelta(t, 10.0, *site.Criteria.PriceMax, 1e-9)
	assert.Equal(t, []string{"vegan", "pizza"}, site.Criteria.Require)
	assert.Equal(t, 15000, site.Wait.TimeoutMS)
	require.Len(t, site.Items, 2)
	assert.Equal(t, cascade.Role, site.Items[1].Kind)
	require.Len(t, site.Fields, 2)
	assert.Equal(t, cascade.Text, site.Fields[0].Selectors[1].Kind)
	assert.Equal(t, extractor.KindPrice, site.Fields[1].Kind)
}

func TestLoadFileJSON5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standings.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{
  // comments and trailing commas are fine
  name: "standings",
  urls: ["https://www.foxsports.com/soccer/mls/standings"],
  fields: [
    {name: "table", kind: "table", selectors: ["table.data-table", "role:table"]},
  ],
}`), 0o644))

	site, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "standings", site.Name)
	assert.Equal(t, extractor.KindTable, site.Fields[0].Kind)
	assert.Len(t, site.Fields[0].Selectors, 2)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	txt := filepath.Join(dir, "site.txt")
	require.NoError(t, os.WriteFile(txt, []byte("name: x"), 0o644))
	_, err = LoadFile(txt)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("name: x\nurls: [https://example.com]\n"), 0o644))
	_, err = LoadFile(invalid)
	assert.ErrorContains(t, err, "at least one field")
}

func TestRegistry(t *testing.T) {
	site := &Site{
		Name:   "Registry-Test",
		URLs:   []string{"https://example.com"},
		Fields: []extractor.Field{{Name: "title", Selectors: cascade.MustParseAll("h1")}},
	}
	Register(site)
	t.Cleanup(func() { delete(registry, "registry-test") })

	got, ok := Get("registry-test")
	require.True(t, ok)
	assert.Same(t, site, got)
	assert.Panics(t, func() { Register(site) })
	assert.Panics(t, func() { Register(&Site{Name: "broken"}) })

	names := []string{}
	for _, s := range Sites() {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "Registry-Test")
}
