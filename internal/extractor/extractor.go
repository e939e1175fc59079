// Package extractor turns a page into records: an item cascade finds the
// repeating containers, then one cascade per field reads each value.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"sitescrape/internal/cascade"
	"sitescrape/internal/dom"
	"sitescrape/internal/normalize"
	"sitescrape/internal/record"
)

// Kind says how a matched element becomes a field value.
type Kind string

const (
	KindText  Kind = "text"
	KindPrice Kind = "price"
	KindURL   Kind = "url"
	KindHTML  Kind = "html"
	KindTable Kind = "table"
	KindHours Kind = "hours"
	KindLines Kind = "lines"
)

// Field describes one value read from every item.
type Field struct {
	Name      string             `yaml:"name" json:"name"`
	Label     string             `yaml:"label" json:"label"`
	Kind      Kind               `yaml:"kind" json:"kind"`
	Selectors []cascade.Selector `yaml:"selectors" json:"selectors"`
	// Attr reads an attribute instead of the element text.
	Attr string `yaml:"attr" json:"attr"`
	// Match keeps the first submatch (or the whole match) of this regular
	// expression applied to the value.
	Match string `yaml:"match" json:"match"`
	// Optional fields do not produce a warning when missing.
	Optional bool `yaml:"optional" json:"optional"`
}

// DisplayLabel is the markdown label of the field.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	words := strings.Fields(strings.ReplaceAll(f.Name, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Classifier sets a boolean flag when any keyword occurs in the given fields.
type Classifier struct {
	Flag     string   `yaml:"flag" json:"flag"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	// Fields to search; all text fields when empty.
	Fields []string `yaml:"fields" json:"fields"`
}

// Extractor reads records from a page.
type Extractor struct {
	// BaseURL resolves relative url fields.
	BaseURL string
	// Items finds the item containers. With no selectors the whole page is
	// a single item.
	Items       []cascade.Selector
	Fields      []Field
	Classifiers []Classifier
	// Limit caps the number of items; zero means no cap.
	Limit int
}

// Result is what Extract found on one page.
type Result struct {
	Records  []record.Record
	Warnings []string
}

// Extract runs the item cascade in root and every field cascade in each
// item. A missing field becomes nil plus a warning. The returned error wraps
// record.ErrSelectorExhausted when no item selector matched.
func (e *Extractor) Extract(ctx context.Context, root dom.Node) (Result, error) {
	var res Result

	items := []dom.Node{root}
	if len(e.Items) > 0 {
		found := dom.Resolve(ctx, root, e.Items, dom.HasText)
		if !found.Found() {
			return res, fmt.Errorf("items: %w: %w", record.ErrSelectorExhausted, found.Err())
		}
		slog.DebugContext(ctx, "items resolved", "selector", found.Candidate.String(), "index", found.Index, "count", len(found.Matches))
		items = found.Matches
	}
	if e.Limit > 0 && len(items) > e.Limit {
		items = items[:e.Limit]
	}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rec := record.Record{Position: i + 1}
		for _, f := range e.Fields {
			if err := e.extractField(ctx, item, f, &rec); err != nil {
				if !f.Optional {
					res.Warnings = append(res.Warnings, fmt.Sprintf("item %d: %s: %v", i+1, f.Name, err))
				}
				slog.DebugContext(ctx, "field missing", "item", i+1, "field", f.Name, "err", err)
			}
		}
		e.classify(&rec)
		res.Records = append(res.Records, rec)
	}

	return res, nil
}

// extractField stores the value of f in rec. On error the field is nil.
func (e *Extractor) extractField(ctx context.Context, item dom.Node, f Field, rec *record.Record) error {
	rec.Set(f.Name, nil)

	var usable dom.Usable = dom.HasText
	if f.Attr != "" {
		usable = dom.HasAttr(f.Attr)
	}
	found := dom.Resolve(ctx, item, f.Selectors, usable)
	if !found.Found() {
		return fmt.Errorf("%w: %w", record.ErrSelectorExhausted, found.Err())
	}

	value, err := e.read(found.Matches, f)
	if err != nil {
		return err
	}
	if f.Match != "" {
		if value, err = applyMatch(f.Match, value); err != nil {
			return err
		}
	}

	switch f.Kind {
	case KindPrice:
		if rec.Price == nil {
			rec.Price = normalize.PricePtr(value)
		}
		if _, ok := normalize.ParsePrice(value); !ok {
			rec.SetString(f.Name, value)
			return fmt.Errorf("%w: no price in %q", record.ErrParse, value)
		}
	case KindHours:
		hours := normalize.ParseWeeklyHours(value)
		if len(hours) == 0 {
			return fmt.Errorf("%w: no weekly hours", record.ErrParse)
		}
		rec.Hours = hours
		value = FormatHours(hours)
	}

	rec.SetString(f.Name, value)
	return nil
}

// read converts the matched elements to the raw field value.
func (e *Extractor) read(matches []dom.Node, f Field) (string, error) {
	first := matches[0]
	switch {
	case f.Attr != "":
		v, _, err := first.Attr(f.Attr)
		if err != nil {
			return "", err
		}
		if f.Kind == KindURL {
			return normalize.StripFragment(normalize.AbsoluteURL(e.BaseURL, v)), nil
		}
		return strings.TrimSpace(v), nil
	case f.Kind == KindHTML:
		html, err := first.HTML()
		if err != nil {
			return "", err
		}
		return HTMLToMarkdown(html)
	case f.Kind == KindTable:
		html, err := first.HTML()
		if err != nil {
			return "", err
		}
		table := TablesToMarkdown(html)
		if table == "" {
			return "", fmt.Errorf("%w: no table rows", record.ErrParse)
		}
		return table, nil
	case f.Kind == KindHours:
		return first.Text()
	case f.Kind == KindLines:
		var lines []string
		for _, m := range matches {
			text, err := m.Text()
			if err != nil {
				continue
			}
			if text = normalize.CleanText(text); text != "" {
				lines = append(lines, text)
			}
		}
		if len(lines) == 0 {
			return "", errors.New("matched elements have no text")
		}
		return strings.Join(lines, "\n"), nil
	default:
		text, err := first.Text()
		if err != nil {
			return "", err
		}
		return normalize.CleanText(text), nil
	}
}

func applyMatch(expr, value string) (string, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return "", fmt.Errorf("match %q: %w", expr, err)
	}
	m := re.FindStringSubmatch(value)
	if m == nil {
		return "", fmt.Errorf("%w: %q does not match %q", record.ErrParse, value, expr)
	}
	if len(m) > 1 {
		return strings.TrimSpace(m[1]), nil
	}
	return strings.TrimSpace(m[0]), nil
}

func (e *Extractor) classify(rec *record.Record) {
	for _, c := range e.Classifiers {
		var parts []string
		if len(c.Fields) == 0 {
			for _, f := range rec.Fields {
				if f.Value != nil {
					parts = append(parts, *f.Value)
				}
			}
		} else {
			for _, name := range c.Fields {
				if v, ok := rec.Get(name); ok {
					parts = append(parts, v)
				}
			}
		}
		rec.SetFlag(c.Flag, normalize.ClassifyByKeyword(strings.Join(parts, " "), normalize.NewKeywordSet(c.Keywords...)))
	}
}

// FormatHours renders hours in week order on one line.
func FormatHours(h normalize.WeeklyHours) string {
	parts := make([]string, 0, len(h))
	for _, d := range h.Ordered() {
		parts = append(parts, d+": "+h[d])
	}
	return strings.Join(parts, "; ")
}
