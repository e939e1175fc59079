package extractor

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var tableRe = regexp.MustCompile(`(?is)<table\b[^>]*>.*?</table>`)

// HTMLToMarkdown converts an element's HTML to markdown. Tables are rendered
// as pipe tables; everything else goes through html-to-markdown.
func HTMLToMarkdown(html string) (string, error) {
	converter := md.NewConverter("", true, nil)

	var parts []string
	convert := func(fragment string) error {
		if strings.TrimSpace(fragment) == "" {
			return nil
		}
		out, err := converter.ConvertString(fragment)
		if err != nil {
			return fmt.Errorf("failed to convert HTML to Markdown: %w", err)
		}
		if out = strings.TrimSpace(out); out != "" {
			parts = append(parts, out)
		}
		return nil
	}

	last := 0
	for _, loc := range tableRe.FindAllStringIndex(html, -1) {
		if err := convert(html[last:loc[0]]); err != nil {
			return "", err
		}
		if table := TablesToMarkdown(html[loc[0]:loc[1]]); table != "" {
			parts = append(parts, table)
		}
		last = loc[1]
	}
	if err := convert(html[last:]); err != nil {
		return "", err
	}

	return strings.Join(parts, "\n\n"), nil
}

// TablesToMarkdown renders every table in html as a markdown pipe table. The
// header comes from thead, or the first row when there is none.
func TablesToMarkdown(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var tables []string
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		headerRow := table.Find("thead tr").First()
		dataRows := table.Find("tbody tr")
		if headerRow.Length() == 0 {
			headerRow = table.Find("tr").First()
			dataRows = table.Find("tr").Slice(1, goquery.ToEnd)
		}

		headers := cells(headerRow)
		if len(headers) == 0 {
			return
		}

		var b strings.Builder
		writeRow(&b, headers)
		sep := make([]string, len(headers))
		for i := range sep {
			sep[i] = "---"
		}
		writeRow(&b, sep)

		dataRows.Each(func(_ int, row *goquery.Selection) {
			if c := cells(row); len(c) > 0 {
				writeRow(&b, c)
			}
		})
		tables = append(tables, strings.TrimRight(b.String(), "\n"))
	})

	return strings.Join(tables, "\n\n")
}

func cells(row *goquery.Selection) []string {
	var out []string
	row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		text := strings.Join(strings.Fields(cell.Text()), " ")
		out = append(out, strings.ReplaceAll(text, "|", `\|`))
	})
	return out
}

func writeRow(b *strings.Builder, cols []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cols, " | "))
	b.WriteString(" |\n")
}
