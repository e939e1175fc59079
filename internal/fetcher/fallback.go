package fetcher

import (
	"context"
	"errors"
	"log/slog"
)

// Fallback opens with Primary and retries a failed open with Secondary.
type Fallback struct {
	Primary   Source
	Secondary Source
}

func (f *Fallback) Name() string { return f.Primary.Name() + "+" + f.Secondary.Name() }

func (f *Fallback) Open(ctx context.Context, url string, wait Wait) (*Page, error) {
	page, err := f.Primary.Open(ctx, url, wait)
	if err == nil {
		return page, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	slog.WarnContext(ctx, "primary engine failed, falling back", "engine", f.Primary.Name(), "fallback", f.Secondary.Name(), "url", url, "err", err)

	page, err2 := f.Secondary.Open(ctx, url, wait)
	if err2 != nil {
		return nil, errors.Join(err, err2)
	}
	return page, nil
}

func (f *Fallback) Close() error {
	return errors.Join(f.Primary.Close(), f.Secondary.Close())
}
