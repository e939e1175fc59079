package cascade

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is the query primitive a selector is evaluated with.
type Kind string

const (
	CSS   Kind = "css"
	Role  Kind = "role"
	Text  Kind = "text"
	XPath Kind = "xpath"
)

// Selector is one candidate of a selector cascade.
//
// Written form, as used in site files:
//
//	css:a[data-test='product-title']   (the "css:" prefix is optional)
//	role:button                        (ARIA role)
//	role:link[name=Learn More]         (role plus accessible-name substring)
//	text:Annual Fee                    (case-insensitive substring)
//	text:/\d+X points/i                (regular expression)
//	xpath://table//tr
type Selector struct {
	Kind Kind
	Expr string
	// Name narrows role selectors to elements whose accessible name contains it.
	Name string
	// Pattern is set for text selectors written as /regex/.
	Pattern *regexp.Regexp
}

var roleNameRe = regexp.MustCompile(`^([a-zA-Z]+)\s*\[\s*name\s*=\s*["']?(.*?)["']?\s*\]$`)

// Parse reads the written form of a selector.
func Parse(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}, fmt.Errorf("empty selector")
	}

	kind, expr := CSS, s
	if i := strings.Index(s, ":"); i > 0 {
		switch k := Kind(strings.ToLower(s[:i])); k {
		case CSS, Role, Text, XPath:
			kind, expr = k, strings.TrimSpace(s[i+1:])
		}
	}
	if expr == "" {
		return Selector{}, fmt.Errorf("selector %q has no expression", s)
	}

	sel := Selector{Kind: kind, Expr: expr}
	switch kind {
	case Role:
		if m := roleNameRe.FindStringSubmatch(expr); m != nil {
			sel.Expr, sel.Name = strings.ToLower(m[1]), m[2]
		} else {
			sel.Expr = strings.ToLower(expr)
		}
	case Text:
		if len(expr) > 2 && strings.HasPrefix(expr, "/") {
			end := strings.LastIndex(expr, "/")
			if end > 0 {
				flags := expr[end+1:]
				body := expr[1:end]
				if strings.Contains(flags, "i") {
					body = "(?i)" + body
				}
				re, err := regexp.Compile(body)
				if err != nil {
					return Selector{}, fmt.Errorf("selector %q: %w", s, err)
				}
				sel.Pattern = re
			}
		}
	}
	return sel, nil
}

// MustParse is Parse for selectors that are compiled into the binary.
func MustParse(s string) Selector {
	sel, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return sel
}

// ParseAll parses every selector of a cascade.
func ParseAll(ss ...string) ([]Selector, error) {
	out := make([]Selector, 0, len(ss))
	for _, s := range ss {
		sel, err := Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

// MustParseAll is ParseAll for cascades compiled into the binary.
func MustParseAll(ss ...string) []Selector {
	out, err := ParseAll(ss...)
	if err != nil {
		panic(err)
	}
	return out
}

// MatchText reports whether text satisfies a text selector.
func (s Selector) MatchText(text string) bool {
	if s.Pattern != nil {
		return s.Pattern.MatchString(text)
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(s.Expr))
}

func (s Selector) String() string {
	if s.Kind == Role && s.Name != "" {
		return fmt.Sprintf("role:%s[name=%s]", s.Expr, s.Name)
	}
	return string(s.Kind) + ":" + s.Expr
}

// UnmarshalText lets site files carry selectors as plain strings.
func (s *Selector) UnmarshalText(b []byte) error {
	sel, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = sel
	return nil
}

// MarshalText is the inverse of UnmarshalText.
func (s Selector) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
