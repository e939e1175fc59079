// Package normalize turns loosely structured page text into typed values.
package normalize

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	priceRe      = regexp.MustCompile(`\$?(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	phoneRe      = regexp.MustCompile(`\(\d{3}\)\s*\d{3}-\d{4}`)
)

// ParsePrice returns the value of the first currency-formatted number in
// text ("Price: $8.25" is 8.25). Only well-formed thousands groups are read
// as one number ("$1,299.00" is 1299, "10,12" is 10). A bare number without
// "$" counts. ok is false when text has no digits.
func ParsePrice(text string) (price float64, ok bool) {
	m := priceRe.FindStringSubmatchIndex(text)
	if m == nil {
		return 0, false
	}
	num := text[m[2]:m[3]]
	if brokenGroup(num, text[m[3]:]) {
		num = num[:strings.IndexByte(num, ',')]
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// brokenGroup reports whether a grouped number runs on into more digits
// ("1,2345" or "1,234,56"), which makes the grouping ill-formed.
func brokenGroup(num, rest string) bool {
	if !strings.Contains(num, ",") || strings.Contains(num, ".") {
		return false
	}
	rest = strings.TrimPrefix(rest, ",")
	return rest != "" && rest[0] >= '0' && rest[0] <= '9'
}

// PricePtr is ParsePrice with the record convention: nil means absent.
func PricePtr(text string) *float64 {
	v, ok := ParsePrice(text)
	if !ok {
		return nil
	}
	return &v
}

// KeywordSet is a fixed set of lowercase indicator keywords.
type KeywordSet []string

// NewKeywordSet lowercases and de-duplicates keywords.
func NewKeywordSet(keywords ...string) KeywordSet {
	seen := make(map[string]bool, len(keywords))
	set := make(KeywordSet, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		set = append(set, k)
	}
	return set
}

// ClassifyByKeyword reports whether any keyword is a substring of the
// lowercased text.
func ClassifyByKeyword(text string, set KeywordSet) bool {
	lower := strings.ToLower(text)
	for _, k := range set {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// CleanText replaces NBSP and collapses runs of whitespace.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// ParsePhone returns the first US phone number in "(ddd) ddd-dddd" form.
func ParsePhone(text string) (string, bool) {
	m := phoneRe.FindString(text)
	return m, m != ""
}

// Lines splits text into trimmed, non-empty lines.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// AbsoluteURL resolves href against base. Unparseable input is returned
// trimmed and unchanged.
func AbsoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || base == "" {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

// StripFragment removes the "#..." part of a URL.
func StripFragment(u string) string {
	u = strings.TrimSpace(u)
	if idx := strings.Index(u, "#"); idx > -1 {
		u = u[:idx]
	}
	return u
}
