package scraper

import (
	"fmt"
	"sort"
	"strings"
)

var registry = map[string]*Site{}

// Register adds a built-in site. It panics on an invalid or duplicate site
// since built-ins are registered from init.
func Register(s *Site) {
	if err := s.Validate(); err != nil {
		panic(err)
	}
	name := strings.ToLower(s.Name)
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("site %s registered twice", s.Name))
	}
	registry[name] = s
}

func Get(name string) (*Site, bool) {
	s, ok := registry[strings.ToLower(name)]
	return s, ok
}

// Sites returns the registered sites sorted by name.
func Sites() []*Site {
	out := make([]*Site, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
