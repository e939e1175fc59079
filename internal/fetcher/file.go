package fetcher

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"sitescrape/internal/dom"
)

// File serves a saved HTML document for every URL, so a site can be
// re-extracted offline. The requested URL is kept for resolving links.
type File struct {
	Path string
}

func (f *File) Name() string { return "file" }

func (f *File) Open(ctx context.Context, url string, _ Wait) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	r, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open page file: %w", err)
	}
	defer r.Close()

	root, err := dom.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Page{
		Root:     root,
		URL:      url,
		Title:    strings.TrimSpace(root.Selection().Find("title").First().Text()),
		LoadTime: time.Since(start),
		Engine:   f.Name(),
	}, nil
}

func (f *File) Close() error { return nil }
