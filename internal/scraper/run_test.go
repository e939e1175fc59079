package scraper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitescrape/internal/cascade"
	"sitescrape/internal/dom"
	"sitescrape/internal/extractor"
	"sitescrape/internal/fetcher"
	"sitescrape/internal/record"
)

// pages serves static fixtures by URL; unknown URLs fail to open.
type pages struct {
	html   map[string]string
	opened []string
}

func (p *pages) Name() string { return "fixture" }

func (p *pages) Open(_ context.Context, u string, _ fetcher.Wait) (*fetcher.Page, error) {
	p.opened = append(p.opened, u)
	html, ok := p.html[u]
	if !ok {
		return nil, fmt.Errorf("net::ERR_NAME_NOT_RESOLVED at %s", u)
	}
	root, err := dom.ParseString(html)
	if err != nil {
		return nil, err
	}
	title := root.Selection().Find("title").First().Text()
	return &fetcher.Page{Root: root, URL: u, Title: title, Engine: p.Name()}, nil
}

func (p *pages) Close() error { return nil }

const results = `<html><body>
<div data-test="product-card"><a data-test="product-title" href="/p/1">Daiya Vegan Cheeze Pizza</a><span data-test="current-price">$4.99</span></div>
<div data-test="product-card"><a data-test="product-title" href="/p/2">Amy's Vegan Margherita Pizza</a><span data-test="current-price">$6.99</span></div>
<div data-test="product-card"><a data-test="product-title" href="/p/3">Cheese Pizza</a><span data-test="current-price">$7.50</span></div>
<div data-test="product-card"><a data-test="product-title" href="/p/4">Vegan Burger Patties</a><span data-test="current-price">$8.00</span></div>
<div data-test="product-card"><a data-test="product-title" href="/p/5">Plant-Based Pepperoni Pizza</a><span data-test="current-price">$11.99</span></div>
</body></html>`

func testSite() *Site {
	return &Site{
		Name:  "pizza",
		Title: "Vegan Pizza Search",
		URLs: []string{
			"https://broken.example/s?q={query}",
			"https://shop.example/empty?q={query}",
			"https://shop.example/s?q={query}",
		},
		Criteria: record.SearchCriteria{
			Query:    "vegan pizza",
			PriceMin: record.Float(5),
			PriceMax: record.Float(10),
			Require:  []string{"vegan", "pizza"},
		},
		Items: cascade.MustParseAll("[data-test='product-card']"),
		Fields: []extractor.Field{
			{Name: "title", Selectors: cascade.MustParseAll("[data-test='product-title']")},
			{Name: "price", Kind: extractor.KindPrice, Selectors: cascade.MustParseAll("[data-test='current-price']")},
			{Name: "link", Kind: extractor.KindURL, Attr: "href", Selectors: cascade.MustParseAll("a[href]")},
		},
		Classifiers: []extractor.Classifier{
			{Flag: "vegan", Keywords: []string{"vegan", "plant-based"}, Fields: []string{"title"}},
			{Flag: "pizza", Keywords: []string{"pizza"}, Fields: []string{"title"}},
		},
	}
}

var fixedNow = func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) }

func TestRunURLCascade(t *testing.T) {
	src := &pages{html: map[string]string{
		"https://shop.example/empty?q=vegan+pizza": `<html><body><p>No results</p></body></html>`,
		"https://shop.example/s?q=vegan+pizza":     results,
	}}
	dir := t.TempDir()
	site := testSite()

	res := Run(context.Background(), src, site, site.Criteria, RunOptions{OutDir: dir, Now: fixedNow})

	assert.True(t, res.Success)
	assert.Equal(t, record.StageSaved, res.Stage)
	assert.Equal(t, "https://shop.example/s?q=vegan+pizza", res.URL)
	assert.Len(t, src.opened, 3)
	assert.Equal(t, 5, res.Total)
	require.Len(t, res.Matches, 1)
	assert.InDelta(t, 6.99, *res.Matches[0].Price, 1e-9)
	link, _ := res.Matches[0].Get("link")
	assert.Equal(t, "https://shop.example/p/2", link)

	md, err := os.ReadFile(filepath.Join(dir, "output.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Vegan Pizza Search")
	assert.Contains(t, string(md), "### 1. Amy's Vegan Margherita Pizza")
	assert.FileExists(t, filepath.Join(dir, "output.json"))
}

func TestRunFailedStillWritesReport(t *testing.T) {
	src := &pages{html: map[string]string{}}
	dir := t.TempDir()
	site := testSite()

	res := Run(context.Background(), src, site, site.Criteria, RunOptions{OutDir: dir, Now: fixedNow})

	assert.False(t, res.Success)
	assert.Equal(t, record.StageFailed, res.Stage)
	assert.Contains(t, res.Error, record.ErrNavigation.Error())
	assert.Contains(t, res.Error, "ERR_NAME_NOT_RESOLVED")

	md, err := os.ReadFile(filepath.Join(dir, "output.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "## Error")
	assert.Contains(t, string(md), "failed (FAILED)")
}

func TestRunNoItemsDegrades(t *testing.T) {
	src := &pages{html: map[string]string{
		"https://shop.example/empty?q=vegan+pizza": `<html><body><p>No results</p></body></html>`,
	}}
	site := testSite()

	res := Run(context.Background(), src, site, site.Criteria, RunOptions{OutDir: t.TempDir(), Now: fixedNow})

	assert.True(t, res.Success, "a page without items is degraded, not failed")
	assert.Equal(t, record.StageSaved, res.Stage)
	assert.Equal(t, "https://shop.example/empty?q=vegan+pizza", res.URL)
	assert.Zero(t, res.Total)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "no selector matched")
}

func TestRunRecoversPanic(t *testing.T) {
	src := &pages{html: map[string]string{"https://shop.example/s?q=vegan+pizza": results}}
	site := testSite()
	site.PostProcess = func(context.Context, *fetcher.Page, *record.RunResult) error {
		panic("boom")
	}
	dir := t.TempDir()

	var res record.RunResult
	require.NotPanics(t, func() {
		res = Run(context.Background(), src, site, site.Criteria, RunOptions{OutDir: dir, Now: fixedNow})
	})
	assert.Equal(t, record.StageFailed, res.Stage)
	assert.Contains(t, res.Error, "panic: boom")
	assert.FileExists(t, filepath.Join(dir, "output.md"))
}

func TestRunPostProcessError(t *testing.T) {
	src := &pages{html: map[string]string{"https://shop.example/s?q=vegan+pizza": results}}
	site := testSite()
	site.PostProcess = func(_ context.Context, _ *fetcher.Page, res *record.RunResult) error {
		for i := range res.Records {
			res.Records[i].SetString("store", "Hollywood")
		}
		return errors.New("phone not found")
	}

	res := Run(context.Background(), src, site, site.Criteria, RunOptions{OutDir: t.TempDir(), Now: fixedNow})

	assert.True(t, res.Success)
	assert.Contains(t, res.Warnings, "post-process: phone not found")
	store, ok := res.Matches[0].Get("store")
	assert.True(t, ok)
	assert.Equal(t, "Hollywood", store)
}

func TestRunWarnsOnChallengePage(t *testing.T) {
	src := &pages{html: map[string]string{
		"https://shop.example/empty?q=vegan+pizza": `<html><head><title>Just a moment...</title></head><body>Checking your browser</body></html>`,
	}}
	site := testSite()

	res := Run(context.Background(), src, site, site.Criteria, RunOptions{OutDir: t.TempDir(), Now: fixedNow})

	assert.True(t, res.Success)
	assert.Contains(t, res.Warnings, `page looks like a bot challenge: "Just a moment..."`)
}
