package fetcher

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"sitescrape/internal/browser"
	"sitescrape/internal/dom"
)

// Live opens pages in a headless browser.
type Live struct {
	browser *browser.Browser
}

// NewLive launches the browser. The caller must Close it.
func NewLive(cfg browser.Config) (*Live, error) {
	b, err := browser.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Live{browser: b}, nil
}

func (l *Live) Name() string { return "browser" }

func (l *Live) Open(ctx context.Context, url string, wait Wait) (*Page, error) {
	start := time.Now()
	timeout := wait.Timeout()

	page, err := l.browser.NewPage()
	if err != nil {
		return nil, err
	}
	page = page.Context(ctx)

	if err := page.Timeout(timeout).Navigate(url); err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}
	if err := applyWait(ctx, page, wait, timeout); err != nil {
		page.Close()
		return nil, fmt.Errorf("wait strategy failed: %w", err)
	}

	p := &Page{
		Root:     dom.NewPage(page),
		URL:      url,
		LoadTime: time.Since(start),
		Engine:   l.Name(),
		close:    page.Close,
		screenshot: func(ctx context.Context) ([]byte, error) {
			return page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
				Format: proto.PageCaptureScreenshotFormatPng,
			})
		},
	}
	if info, err := page.Info(); err == nil {
		p.URL = info.URL
		p.Title = info.Title
	}
	return p, nil
}

func (l *Live) Close() error {
	return l.browser.Close()
}

func applyWait(ctx context.Context, page *rod.Page, wait Wait, timeout time.Duration) error {
	switch wait.Strategy {
	case WaitElement:
		if _, err := page.Timeout(timeout).Element(wait.Target); err != nil {
			return fmt.Errorf("failed to wait for element '%s': %w", wait.Target, err)
		}
	case WaitTime:
		ms, err := strconv.Atoi(wait.Target)
		if err != nil {
			return fmt.Errorf("invalid wait time '%s': %w", wait.Target, err)
		}
		if err := page.Timeout(timeout).WaitLoad(); err != nil {
			return fmt.Errorf("failed to wait for page load: %w", err)
		}
		return sleep(ctx, time.Duration(ms)*time.Millisecond)
	case WaitIdle:
		if err := page.Timeout(timeout).WaitLoad(); err != nil {
			return fmt.Errorf("failed to wait for page load: %w", err)
		}
		// JS-rendered result lists populate after the load event
		idle := page.Timeout(timeout).WaitRequestIdle(
			500*time.Millisecond, nil, nil,
			[]proto.NetworkResourceType{proto.NetworkResourceTypeImage, proto.NetworkResourceTypeMedia},
		)
		idle()
	default:
		if err := page.Timeout(timeout).WaitLoad(); err != nil {
			return fmt.Errorf("failed to wait for page load: %w", err)
		}
	}
	return nil
}
