// Package fetcher opens pages for extraction, either in a live browser or
// by plain HTTP.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sitescrape/internal/dom"
)

// WaitStrategy is what a source waits for after navigation.
type WaitStrategy string

const (
	WaitLoad    WaitStrategy = "load"    // load event
	WaitElement WaitStrategy = "element" // a CSS selector appears
	WaitTime    WaitStrategy = "time"    // fixed number of milliseconds
	WaitIdle    WaitStrategy = "idle"    // load event, then network idle
)

// DefaultTimeout bounds navigation and waiting when a site sets none.
const DefaultTimeout = 30 * time.Second

// Wait configures the post-navigation wait.
type Wait struct {
	Strategy WaitStrategy `yaml:"strategy" json:"strategy"`
	// Target is the selector for element, or milliseconds for time.
	Target string `yaml:"target" json:"target"`
	// TimeoutMS bounds navigation plus waiting.
	TimeoutMS int `yaml:"timeout_ms" json:"timeout_ms"`
}

// Timeout returns the wait limit, DefaultTimeout when unset.
func (w Wait) Timeout() time.Duration {
	if w.TimeoutMS <= 0 {
		return DefaultTimeout
	}
	return time.Duration(w.TimeoutMS) * time.Millisecond
}

// Validate checks the strategy and its target.
func (w Wait) Validate() error {
	switch w.Strategy {
	case "", WaitLoad, WaitIdle:
		return nil
	case WaitElement:
		if strings.TrimSpace(w.Target) == "" {
			return fmt.Errorf("wait target is required for element strategy")
		}
	case WaitTime:
		if _, err := strconv.Atoi(w.Target); err != nil {
			return fmt.Errorf("invalid wait time %q: %w", w.Target, err)
		}
	default:
		return fmt.Errorf("unknown wait strategy %q", w.Strategy)
	}
	return nil
}

// ErrScreenshotUnsupported is returned by sources without a renderer.
var ErrScreenshotUnsupported = errors.New("screenshots need the browser engine")

// Page is an opened document.
type Page struct {
	Root     dom.Node
	URL      string // final URL after redirects
	Title    string
	LoadTime time.Duration
	// Engine names the source that opened the page.
	Engine string

	screenshot func(ctx context.Context) ([]byte, error)
	close      func() error
}

// Screenshot captures the full page.
func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	if p.screenshot == nil {
		return nil, ErrScreenshotUnsupported
	}
	return p.screenshot(ctx)
}

// Close releases the page.
func (p *Page) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}

// Source opens pages.
type Source interface {
	Name() string
	Open(ctx context.Context, url string, wait Wait) (*Page, error)
	Close() error
}

// sleep waits d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
