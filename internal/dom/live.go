package dom

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"

	"sitescrape/internal/cascade"
)

// findTextJS returns the deepest elements under this (or the document) whose
// innerText matches. Arguments: needle, isRegex, regex flags.
const findTextJS = `function (needle, isRegex, flags) {
	const root = (this && this.querySelectorAll) ? this : document;
	const skip = new Set(['SCRIPT', 'STYLE', 'NOSCRIPT', 'TEMPLATE', 'HEAD']);
	const re = isRegex ? new RegExp(needle, flags) : null;
	const lower = needle.toLowerCase();
	const test = (t) => re ? re.test(t) : t.toLowerCase().includes(lower);
	const hits = Array.from(root.querySelectorAll('*')).filter(
		(el) => !skip.has(el.tagName) && test(el.innerText || el.textContent || ''));
	return hits.filter((el) => !hits.some((o) => o !== el && el.contains(o)));
}`

// Page is the root Node of a live browser page.
type Page struct {
	page *rod.Page
}

// NewPage wraps a rod page.
func NewPage(p *rod.Page) *Page {
	return &Page{page: p}
}

func (p *Page) Text() (string, error) {
	res, err := p.page.Eval(`() => document.body ? document.body.innerText : ''`)
	if err != nil {
		return "", fmt.Errorf("failed to get body text: %w", err)
	}
	return res.Value.Str(), nil
}

func (p *Page) Attr(string) (string, bool, error) { return "", false, nil }

func (p *Page) HTML() (string, error) { return p.page.HTML() }

func (p *Page) Visible() (bool, error) { return true, nil }

func (p *Page) Query(ctx context.Context, sel cascade.Selector) ([]Node, error) {
	page := p.page.Context(ctx)
	return queryLive(sel, page.Elements, page.ElementsX, page.ElementsByJS)
}

// Element is a Node over a live browser element.
type Element struct {
	el *rod.Element
}

// NewElement wraps a rod element.
func NewElement(el *rod.Element) *Element {
	return &Element{el: el}
}

func (e *Element) Text() (string, error) { return e.el.Text() }

func (e *Element) Attr(name string) (string, bool, error) {
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *Element) HTML() (string, error) { return e.el.HTML() }

func (e *Element) Visible() (bool, error) { return e.el.Visible() }

func (e *Element) Query(ctx context.Context, sel cascade.Selector) ([]Node, error) {
	el := e.el.Context(ctx)
	return queryLive(sel, el.Elements, el.ElementsX, el.ElementsByJS)
}

func queryLive(
	sel cascade.Selector,
	css func(string) (rod.Elements, error),
	xpath func(string) (rod.Elements, error),
	byJS func(*rod.EvalOptions) (rod.Elements, error),
) ([]Node, error) {
	var (
		els rod.Elements
		err error
	)
	switch sel.Kind {
	case cascade.CSS:
		els, err = css(sel.Expr)
	case cascade.Role:
		els, err = css(roleCSS(sel.Expr))
	case cascade.XPath:
		els, err = xpath(sel.Expr)
	case cascade.Text:
		needle, isRegex, flags := jsPattern(sel)
		els, err = byJS(rod.Eval(findTextJS, needle, isRegex, flags))
	default:
		return nil, fmt.Errorf("unsupported selector kind %q", sel.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", sel, err)
	}

	nodes := make([]Node, 0, len(els))
	for _, el := range els {
		nodes = append(nodes, NewElement(el))
	}
	if sel.Kind == cascade.Role {
		nodes = filterByName(nodes, sel.Name)
	}
	return nodes, nil
}

// jsPattern converts a text selector to JS RegExp arguments.
func jsPattern(sel cascade.Selector) (needle string, isRegex bool, flags string) {
	if sel.Pattern == nil {
		return sel.Expr, false, ""
	}
	src := sel.Pattern.String()
	if rest, ok := strings.CutPrefix(src, "(?i)"); ok {
		return rest, true, "i"
	}
	return src, true, ""
}
