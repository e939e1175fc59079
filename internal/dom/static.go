package dom

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"sitescrape/internal/cascade"
)

// Static is a Node over parsed HTML.
type Static struct {
	sel *goquery.Selection
}

// Parse reads an HTML document and returns its root.
func Parse(r io.Reader) (*Static, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Static{sel: doc.Selection}, nil
}

// ParseString is Parse for an in-memory document.
func ParseString(s string) (*Static, error) {
	return Parse(strings.NewReader(s))
}

// FromSelection wraps a goquery selection.
func FromSelection(sel *goquery.Selection) *Static {
	return &Static{sel: sel}
}

// Selection exposes the underlying goquery selection.
func (s *Static) Selection() *goquery.Selection { return s.sel }

func (s *Static) Text() (string, error) {
	var b strings.Builder
	for _, n := range s.sel.Nodes {
		renderText(&b, n)
	}
	return tidyLines(b.String()), nil
}

func (s *Static) Attr(name string) (string, bool, error) {
	v, ok := s.sel.Attr(name)
	return v, ok, nil
}

func (s *Static) HTML() (string, error) {
	if s.sel.Length() == 0 {
		return "", nil
	}
	if s.sel.Nodes[0].Type == html.DocumentNode {
		return s.sel.Html()
	}
	return goquery.OuterHtml(s.sel)
}

func (s *Static) Visible() (bool, error) {
	for _, n := range s.sel.Nodes {
		for p := n; p != nil; p = p.Parent {
			if p.Type == html.ElementNode && hiddenElement(p) {
				return false, nil
			}
		}
	}
	return true, nil
}

func (s *Static) Query(ctx context.Context, sel cascade.Selector) ([]Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch sel.Kind {
	case cascade.CSS:
		return s.queryCSS(sel.Expr)
	case cascade.Role:
		nodes, err := s.queryCSS(roleCSS(sel.Expr))
		if err != nil {
			return nil, err
		}
		return filterByName(nodes, sel.Name), nil
	case cascade.Text:
		return s.queryText(sel), nil
	case cascade.XPath:
		return nil, fmt.Errorf("xpath selector %q needs the browser engine", sel.Expr)
	default:
		return nil, fmt.Errorf("unsupported selector kind %q", sel.Kind)
	}
}

func (s *Static) queryCSS(expr string) ([]Node, error) {
	// goquery silently matches nothing on a bad selector
	compiled, err := cascadia.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid css selector %q: %w", expr, err)
	}
	return wrap(s.sel.FindMatcher(compiled)), nil
}

// queryText returns the deepest elements whose text satisfies sel.
func (s *Static) queryText(sel cascade.Selector) []Node {
	match := func(_ int, el *goquery.Selection) bool {
		if skipText[goquery.NodeName(el)] {
			return false
		}
		text, _ := FromSelection(el).Text()
		return sel.MatchText(text)
	}
	hits := s.sel.Find("*").FilterFunction(match)
	deepest := hits.FilterFunction(func(_ int, el *goquery.Selection) bool {
		return el.Find("*").FilterFunction(match).Length() == 0
	})
	return wrap(deepest)
}

func wrap(sel *goquery.Selection) []Node {
	out := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, el *goquery.Selection) {
		out = append(out, FromSelection(el))
	})
	return out
}

var skipText = map[string]bool{"script": true, "style": true, "template": true, "noscript": true, "head": true}

var (
	displayNoneRe   = regexp.MustCompile(`display\s*:\s*none`)
	hiddenVisibleRe = regexp.MustCompile(`visibility\s*:\s*hidden`)
)

func hiddenElement(n *html.Node) bool {
	if skipText[n.Data] {
		return true
	}
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "aria-hidden":
			if strings.EqualFold(a.Val, "true") {
				return true
			}
		case "type":
			if n.Data == "input" && strings.EqualFold(a.Val, "hidden") {
				return true
			}
		case "style":
			style := strings.ToLower(a.Val)
			if displayNoneRe.MatchString(style) || hiddenVisibleRe.MatchString(style) {
				return true
			}
		}
	}
	return false
}

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "dd": true,
	"div": true, "dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "tr": true, "ul": true,
}

// renderText approximates innerText: hidden subtrees are dropped, source
// whitespace collapses and block elements sit on their own lines.
func renderText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(whitespaceRe.ReplaceAllString(n.Data, " "))
		return
	case html.ElementNode:
		if hiddenElement(n) {
			return
		}
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
	}
	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		lineBreak(b)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(b, c)
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") && c.NextSibling != nil {
			b.WriteByte('\t')
		}
	}
	if block {
		lineBreak(b)
	}
}

// lineBreak starts a new line unless the current one is still empty.
func lineBreak(b *strings.Builder) {
	s := strings.TrimRight(b.String(), " \t")
	if s == "" || strings.HasSuffix(s, "\n") {
		return
	}
	b.WriteByte('\n')
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	spaceRunRe   = regexp.MustCompile(`[ \t\f\r\x{00a0}]+`)
)

// tidyLines collapses spaces inside lines, trims them and squeezes runs of
// blank lines to one.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " "))
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
