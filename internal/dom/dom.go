// Package dom is the query surface selector cascades run against. A Node is
// either a live browser element (go-rod) or a parsed static document
// (goquery); both answer the same four selector kinds.
package dom

import (
	"context"
	"fmt"
	"strings"

	"sitescrape/internal/cascade"
)

// Node is a scope that selectors are evaluated in.
type Node interface {
	// Text is the rendered text, with block elements on their own lines.
	Text() (string, error)
	Attr(name string) (value string, ok bool, err error)
	HTML() (string, error)
	Visible() (bool, error)
	Query(ctx context.Context, sel cascade.Selector) ([]Node, error)
}

// Usable decides whether a matched node counts toward a selector's matches.
type Usable func(Node) (bool, error)

// HasText accepts visible nodes with non-empty text.
func HasText(n Node) (bool, error) {
	visible, err := n.Visible()
	if err != nil || !visible {
		return false, err
	}
	text, err := n.Text()
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(text) != "", nil
}

// HasAttr accepts nodes carrying a non-empty name attribute.
func HasAttr(name string) Usable {
	return func(n Node) (bool, error) {
		v, ok, err := n.Attr(name)
		if err != nil {
			return false, err
		}
		return ok && strings.TrimSpace(v) != "", nil
	}
}

// Resolve runs a selector cascade in scope. Only usable nodes count as
// matches, so a selector matching nothing but hidden or empty elements
// falls through to the next one.
func Resolve(ctx context.Context, scope Node, sels []cascade.Selector, usable Usable) cascade.Result[cascade.Selector, Node] {
	if usable == nil {
		usable = HasText
	}
	return cascade.Resolve(ctx, sels, func(ctx context.Context, sel cascade.Selector) ([]Node, error) {
		nodes, err := scope.Query(ctx, sel)
		if err != nil {
			return nil, err
		}
		return filterUsable(nodes, usable)
	})
}

// filterUsable keeps usable nodes. Nodes whose check fails are skipped; the
// first such error is only returned when no node was usable.
func filterUsable(nodes []Node, usable Usable) ([]Node, error) {
	var (
		out      []Node
		firstErr error
	)
	for _, n := range nodes {
		ok, err := usable(n)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if ok {
			out = append(out, n)
		}
	}
	if len(out) == 0 && firstErr != nil {
		return nil, fmt.Errorf("checking matched elements: %w", firstErr)
	}
	return out, nil
}

// accessibleName approximates the ARIA accessible name: aria-label, then
// alt or title, then the element text.
func accessibleName(n Node) string {
	for _, attr := range []string{"aria-label", "alt", "title"} {
		if v, ok, err := n.Attr(attr); err == nil && ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	text, _ := n.Text()
	return text
}

// filterByName narrows role matches to those whose accessible name contains
// name, case-insensitively.
func filterByName(nodes []Node, name string) []Node {
	if name == "" {
		return nodes
	}
	want := strings.ToLower(name)
	out := nodes[:0]
	for _, n := range nodes {
		if strings.Contains(strings.ToLower(accessibleName(n)), want) {
			out = append(out, n)
		}
	}
	return out
}
