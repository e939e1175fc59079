// Package output renders a run result as markdown, JSON, CSV, text or HTML
// and saves the canonical report files.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"sitescrape/internal/record"
)

// NA stands in for absent values in human-readable output.
const NA = "N/A"

const (
	MarkdownFile = "output.md"
	JSONFile     = "output.json"
)

// Column names a record field or flag and how it is labelled.
type Column struct {
	Name  string
	Label string
	// List renders a multi-line value as a nested list.
	List bool
}

// Report is a run result plus the presentation of its records.
type Report struct {
	Result  record.RunResult
	Columns []Column // record fields, in display order
	Flags   []Column
}

// Save writes output.md and output.json to dir and returns their paths.
// Identical reports produce identical bytes.
func (r *Report) Save(dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	markdown, err := r.ToMarkdown()
	if err != nil {
		return nil, err
	}
	data, err := r.ToJSON()
	if err != nil {
		return nil, err
	}

	mdPath := filepath.Join(dir, MarkdownFile)
	jsonPath := filepath.Join(dir, JSONFile)
	if err := os.WriteFile(mdPath, []byte(markdown), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", mdPath, err)
	}
	if err := os.WriteFile(jsonPath, append(data, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}
	return []string{mdPath, jsonPath}, nil
}

func (r *Report) ToMarkdown() (string, error) {
	res := r.Result
	var sb strings.Builder

	title := res.Title
	if title == "" {
		title = res.Site
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "- **Site**: %s\n", res.Site)
	fmt.Fprintf(&sb, "- **URL**: %s\n", orNA(res.URL))
	fmt.Fprintf(&sb, "- **Status**: %s (%s)\n", status(res), res.Stage)
	fmt.Fprintf(&sb, "- **Timestamp**: %s\n\n", res.Timestamp.UTC().Format(time.RFC3339))

	sb.WriteString("## Search Criteria\n\n")
	criteria := criteriaLines(res.Criteria)
	if len(criteria) == 0 {
		sb.WriteString("None\n")
	}
	for _, line := range criteria {
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Results\n\n")
	fmt.Fprintf(&sb, "Total items found: %d\n", res.Total)
	fmt.Fprintf(&sb, "Matching items: %d\n\n", len(res.Matches))
	for i, rec := range res.Matches {
		r.writeRecord(&sb, i+1, rec)
	}

	if res.Error != "" {
		fmt.Fprintf(&sb, "## Error\n\n%s\n\n", res.Error)
	}
	if len(res.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
		sb.WriteString("\n")
	}
	if res.Screenshot != "" {
		fmt.Fprintf(&sb, "## Screenshot\n\n![screenshot](%s)\n\n", filepath.Base(res.Screenshot))
	}

	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}

func (r *Report) writeRecord(sb *strings.Builder, n int, rec record.Record) {
	heading := rec.Title()
	if heading == "" {
		heading = NA
	}
	fmt.Fprintf(sb, "### %d. %s\n\n", n, heading)

	for i, col := range r.columns(rec) {
		if i == 0 {
			continue // heading
		}
		value, ok := rec.Get(col.Name)
		switch {
		case !ok:
			fmt.Fprintf(sb, "- **%s**: %s\n", col.Label, NA)
		case strings.Contains(value, "\n"):
			fmt.Fprintf(sb, "- **%s**:\n", col.Label)
			for _, line := range strings.Split(value, "\n") {
				if col.List {
					fmt.Fprintf(sb, "  - %s\n", line)
				} else {
					fmt.Fprintf(sb, "  %s\n", line)
				}
			}
		default:
			fmt.Fprintf(sb, "- **%s**: %s\n", col.Label, value)
		}
	}
	for _, flag := range r.Flags {
		fmt.Fprintf(sb, "- **%s**: %s\n", flag.Label, yesNo(rec.Flag(flag.Name)))
	}
	sb.WriteString("\n")
}

// columns falls back to the record's own field order when the report has
// no column list.
func (r *Report) columns(rec record.Record) []Column {
	if len(r.Columns) > 0 {
		return r.Columns
	}
	cols := make([]Column, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		cols = append(cols, Column{Name: f.Name, Label: f.Name})
	}
	return cols
}

func (r *Report) ToJSON() ([]byte, error) {
	b, err := json.MarshalIndent(r.Result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return b, nil
}

func (r *Report) ToCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	var sample record.Record
	if len(r.Result.Matches) > 0 {
		sample = r.Result.Matches[0]
	}
	cols := r.columns(sample)

	header := []string{"Position"}
	for _, c := range cols {
		header = append(header, c.Label)
	}
	header = append(header, "Price Value")
	for _, f := range r.Flags {
		header = append(header, f.Label)
	}
	_ = w.Write(header)

	for _, rec := range r.Result.Matches {
		row := []string{strconv.Itoa(rec.Position)}
		for _, c := range cols {
			v, ok := rec.Get(c.Name)
			if !ok {
				v = ""
			}
			row = append(row, v)
		}
		if rec.Price != nil {
			row = append(row, strconv.FormatFloat(*rec.Price, 'f', 2, 64))
		} else {
			row = append(row, "")
		}
		for _, f := range r.Flags {
			row = append(row, strconv.FormatBool(rec.Flag(f.Name)))
		}
		_ = w.Write(row)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.String(), nil
}

func (r *Report) ToText() (string, error) {
	res := r.Result
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)\n", orNA(res.Title), status(res))
	fmt.Fprintf(&sb, "%s\n\n", orNA(res.URL))
	fmt.Fprintf(&sb, "%d of %d items match\n\n", len(res.Matches), res.Total)
	for i, rec := range res.Matches {
		heading := rec.Title()
		if heading == "" {
			heading = NA
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, heading)
		for j, col := range r.columns(rec) {
			if j == 0 {
				continue
			}
			v, ok := rec.Get(col.Name)
			if !ok {
				v = NA
			}
			fmt.Fprintf(&sb, "   %s: %s\n", col.Label, strings.ReplaceAll(v, "\n", "\n     "))
		}
		sb.WriteString("\n")
	}
	if res.Error != "" {
		fmt.Fprintf(&sb, "error: %s\n", res.Error)
	}
	return sb.String(), nil
}

func (r *Report) ToHTML() (string, error) {
	res := r.Result
	var sb strings.Builder
	fmt.Fprintf(&sb, "<h1>%s</h1>\n", html.EscapeString(orNA(res.Title)))
	fmt.Fprintf(&sb, "<p>%d of %d items match</p>\n<ol>\n", len(res.Matches), res.Total)
	for _, rec := range res.Matches {
		heading := rec.Title()
		if heading == "" {
			heading = NA
		}
		fmt.Fprintf(&sb, "  <li><strong>%s</strong><ul>", html.EscapeString(heading))
		for j, col := range r.columns(rec) {
			if j == 0 {
				continue
			}
			v, ok := rec.Get(col.Name)
			if !ok {
				v = NA
			}
			fmt.Fprintf(&sb, "<li>%s: %s</li>", html.EscapeString(col.Label), html.EscapeString(v))
		}
		sb.WriteString("</ul></li>\n")
	}
	sb.WriteString("</ol>\n")
	return sb.String(), nil
}

func criteriaLines(c record.SearchCriteria) []string {
	var lines []string
	if c.Query != "" {
		lines = append(lines, "- **Query**: "+c.Query)
	}
	if c.Location != "" {
		lines = append(lines, "- **Location**: "+c.Location)
	}
	if c.Arg != "" {
		lines = append(lines, "- **Argument**: "+c.Arg)
	}
	switch {
	case c.PriceMin != nil && c.PriceMax != nil:
		lines = append(lines, fmt.Sprintf("- **Price Range**: $%.2f - $%.2f", *c.PriceMin, *c.PriceMax))
	case c.PriceMin != nil:
		lines = append(lines, fmt.Sprintf("- **Price Range**: from $%.2f", *c.PriceMin))
	case c.PriceMax != nil:
		lines = append(lines, fmt.Sprintf("- **Price Range**: up to $%.2f", *c.PriceMax))
	}
	if len(c.Require) > 0 {
		lines = append(lines, "- **Required**: "+strings.Join(c.Require, ", "))
	}
	return lines
}

func status(res record.RunResult) string {
	if res.Success {
		return "success"
	}
	return "failed"
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orNA(s string) string {
	if s == "" {
		return NA
	}
	return s
}
