// Package formatter prints a run report in the format chosen on the command
// line.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"sitescrape/internal/scraper"
)

// Formats lists the accepted --format values.
var Formats = []string{"markdown", "json", "csv", "text", "html"}

func Format(content scraper.Content, format string) (string, error) {
	switch strings.ToLower(format) {
	case "html":
		return content.ToHTML()
	case "text", "txt":
		return content.ToText()
	case "markdown", "md":
		return content.ToMarkdown()
	case "csv":
		return content.ToCSV()
	case "json":
		b, err := content.ToJSON()
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// Write formats content and writes it to w with a trailing newline.
func Write(w io.Writer, content scraper.Content, format string) error {
	out, err := Format(content, format)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err = io.WriteString(w, out)
	return err
}
