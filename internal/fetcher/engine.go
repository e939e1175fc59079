package fetcher

import (
	"fmt"
	"log/slog"

	"sitescrape/internal/browser"
)

// Engine selects the page source.
type Engine string

const (
	EngineAuto    Engine = "auto"    // browser, falling back to HTTP
	EngineBrowser Engine = "browser" // browser only
	EngineHTTP    Engine = "http"    // HTTP only
)

// Options configures NewSource.
type Options struct {
	Engine  Engine
	Browser browser.Config
	Static  StaticConfig
}

// NewSource builds the source for opts.Engine. With EngineAuto a browser
// that fails to launch is logged and the HTTP engine is used alone.
func NewSource(opts Options) (Source, error) {
	switch opts.Engine {
	case EngineHTTP:
		return NewStatic(opts.Static), nil
	case EngineBrowser:
		return NewLive(opts.Browser)
	case EngineAuto, "":
		live, err := NewLive(opts.Browser)
		if err != nil {
			slog.Warn("browser unavailable, using http engine", "err", err)
			return NewStatic(opts.Static), nil
		}
		return &Fallback{Primary: live, Secondary: NewStatic(opts.Static)}, nil
	default:
		return nil, fmt.Errorf("unknown engine %q (want auto, browser or http)", opts.Engine)
	}
}
