package record

// InPriceRange reports whether price lies in [min, max]. A nil bound is
// open; a nil price never passes, even with both bounds open.
func InPriceRange(price, min, max *float64) bool {
	if price == nil {
		return false
	}
	if min != nil && *price < *min {
		return false
	}
	if max != nil && *price > *max {
		return false
	}
	return true
}

// Match reports whether r satisfies c: price range (only when c carries a
// bound) and every required flag.
func (c SearchCriteria) Match(r Record) bool {
	if c.PriceMin != nil || c.PriceMax != nil {
		if !InPriceRange(r.Price, c.PriceMin, c.PriceMax) {
			return false
		}
	}
	for _, flag := range c.Require {
		if !r.Flag(flag) {
			return false
		}
	}
	return true
}

// Filter returns the records matching c, keeping their order.
func Filter(records []Record, c SearchCriteria) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Float returns a pointer to v, for literal bounds.
func Float(v float64) *float64 {
	return &v
}
