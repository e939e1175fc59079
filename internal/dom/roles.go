package dom

import "fmt"

// roleSelectors maps ARIA roles to the CSS that finds elements carrying the
// role explicitly or implicitly.
var roleSelectors = map[string]string{
	"article":      "article, [role=article]",
	"banner":       "header, [role=banner]",
	"button":       "button, input[type=button], input[type=submit], input[type=reset], [role=button]",
	"cell":         "td, [role=cell], [role=gridcell]",
	"checkbox":     "input[type=checkbox], [role=checkbox]",
	"columnheader": "th, [role=columnheader]",
	"contentinfo":  "footer, [role=contentinfo]",
	"dialog":       "dialog, [role=dialog]",
	"form":         "form, [role=form]",
	"heading":      "h1, h2, h3, h4, h5, h6, [role=heading]",
	"img":          "img, [role=img]",
	"link":         "a[href], area[href], [role=link]",
	"list":         "ul, ol, [role=list]",
	"listitem":     "li, [role=listitem]",
	"main":         "main, [role=main]",
	"navigation":   "nav, [role=navigation]",
	"option":       "option, [role=option]",
	"region":       "section[aria-label], section[aria-labelledby], [role=region]",
	"row":          "tr, [role=row]",
	"search":       "[role=search]",
	"table":        "table, [role=table], [role=grid]",
	"textbox":      "input:not([type]), input[type=text], input[type=search], input[type=email], textarea, [role=textbox]",
}

// roleCSS returns the CSS for role; unknown roles only match an explicit
// role attribute.
func roleCSS(role string) string {
	if css, ok := roleSelectors[role]; ok {
		return css
	}
	return fmt.Sprintf("[role=%q]", role)
}
