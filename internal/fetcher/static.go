package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"sitescrape/internal/dom"
)

// DefaultUserAgent is sent by the HTTP engine.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// StaticConfig configures the HTTP engine.
type StaticConfig struct {
	ProxyURL  string
	UserAgent string
	Retries   int
}

// Static fetches HTML over HTTP and parses it without running scripts.
type Static struct {
	client *resty.Client
}

// NewStatic builds the HTTP engine.
func NewStatic(cfg StaticConfig) *Static {
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	client := resty.New()
	client.SetHeader("user-agent", ua)
	client.SetHeader("accept", "text/html,application/xhtml+xml")
	client.SetTimeout(DefaultTimeout)
	client.SetRetryCount(cfg.Retries)
	if cfg.ProxyURL != "" {
		client.SetProxy(cfg.ProxyURL)
	}
	return &Static{client: client}
}

func (s *Static) Name() string { return "http" }

// Open GETs url. Wait strategies other than the timeout do not apply
// without a renderer and are ignored.
func (s *Static) Open(ctx context.Context, url string, wait Wait) (*Page, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, wait.Timeout())
	defer cancel()

	res, err := s.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("failed to fetch: unexpected status %s", res.Status())
	}

	root, err := dom.Parse(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, err
	}

	final := url
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		final = res.RawResponse.Request.URL.String()
	}

	return &Page{
		Root:     root,
		URL:      final,
		Title:    strings.TrimSpace(root.Selection().Find("title").First().Text()),
		LoadTime: time.Since(start),
		Engine:   s.Name(),
	}, nil
}

func (s *Static) Close() error { return nil }
