package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sitescrape/internal/cascade"
	"sitescrape/internal/dom"
	"sitescrape/internal/fetcher"
	"sitescrape/internal/record"
)

// ScreenshotFile is the name of the screenshot written next to the report.
const ScreenshotFile = "screenshot.png"

// RunOptions configures Run.
type RunOptions struct {
	// OutDir receives output.md, output.json and the screenshot.
	OutDir string
	// Now stamps the result; time.Now when nil.
	Now func() time.Time
}

// Run executes site against src:
//
//	INIT -> NAVIGATED -> EXTRACTED -> SAVED
//	INIT -> FAILED (every URL candidate failed to open)
//
// The report is written on every path, including a recovered panic. Field
// and item problems degrade the result with warnings instead of failing it.
func Run(ctx context.Context, src fetcher.Source, site *Site, criteria record.SearchCriteria, opts RunOptions) (res record.RunResult) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	res = record.RunResult{
		Site:      site.Name,
		Title:     site.Title,
		Timestamp: now(),
		Stage:     record.StageInit,
		Criteria:  criteria,
	}
	log := slog.With("site", site.Name)

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "run panicked", "panic", r)
			res.Fail(fmt.Errorf("panic: %v", r))
		}
		save(ctx, log, site, &res, opts.OutDir)
	}()

	page, err := navigate(ctx, log, src, site, criteria)
	if err != nil {
		log.ErrorContext(ctx, "navigation failed", "err", err)
		res.Fail(err)
		return res
	}
	defer page.Close()

	res.Stage = record.StageNavigated
	res.URL = page.URL
	log.InfoContext(ctx, "page opened", "url", page.URL, "engine", page.Engine, "load_time", page.LoadTime)
	if challenged(page.Title) {
		log.WarnContext(ctx, "bot challenge page", "title", page.Title)
		res.Warn(fmt.Sprintf("page looks like a bot challenge: %q", page.Title))
	}

	if site.Screenshot {
		if path, err := screenshot(ctx, page, opts.OutDir); err != nil {
			res.Warn(fmt.Sprintf("screenshot: %v", err))
		} else {
			res.Screenshot = path
		}
	}

	extracted, err := site.Extractor(page.URL).Extract(ctx, page.Root)
	if err != nil {
		log.WarnContext(ctx, "extraction degraded", "err", err)
		res.Warn(err.Error())
	}
	res.Records = extracted.Records
	res.Warnings = append(res.Warnings, extracted.Warnings...)

	if site.PostProcess != nil {
		if err := site.PostProcess(ctx, page, &res); err != nil {
			log.WarnContext(ctx, "post-processing failed", "err", err)
			res.Warn(fmt.Sprintf("post-process: %v", err))
		}
	}

	res.Total = len(res.Records)
	res.Matches = record.Filter(res.Records, criteria)
	res.Stage = record.StageExtracted
	res.Success = true
	log.InfoContext(ctx, "extracted", "items", res.Total, "matches", len(res.Matches), "warnings", len(res.Warnings))

	return res
}

// navigate runs the URL cascade. A candidate wins when it opens and, for
// sites with an item cascade, shows at least one item. When every candidate
// opens but none shows items, the first opened page is used so the report
// still carries the page it looked at.
func navigate(ctx context.Context, log *slog.Logger, src fetcher.Source, site *Site, criteria record.SearchCriteria) (*fetcher.Page, error) {
	var fallback *fetcher.Page

	found := cascade.Resolve(ctx, site.Candidates(criteria), func(ctx context.Context, u string) ([]*fetcher.Page, error) {
		log.DebugContext(ctx, "opening", "url", u)
		page, err := src.Open(ctx, u, site.Wait)
		if err != nil {
			return nil, err
		}
		if len(site.Items) == 0 {
			return []*fetcher.Page{page}, nil
		}
		if items := dom.Resolve(ctx, page.Root, site.Items, dom.HasText); items.Found() {
			return []*fetcher.Page{page}, nil
		}
		log.InfoContext(ctx, "no items on page, trying next url", "url", u)
		if fallback == nil {
			fallback = page
		} else {
			page.Close()
		}
		return nil, nil
	})

	if found.Found() {
		if fallback != nil {
			fallback.Close()
		}
		return found.Matches[0], nil
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, fmt.Errorf("%w: %w", record.ErrNavigation, found.Err())
}

// challengeTitles are page titles of anti-bot interstitials.
var challengeTitles = []string{"just a moment", "attention required", "access denied", "are you a robot"}

func challenged(title string) bool {
	title = strings.ToLower(title)
	for _, t := range challengeTitles {
		if strings.Contains(title, t) {
			return true
		}
	}
	return false
}

func screenshot(ctx context.Context, page *fetcher.Page, dir string) (string, error) {
	shot, err := page.Screenshot(ctx)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, ScreenshotFile)
	if err := os.WriteFile(path, shot, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func save(ctx context.Context, log *slog.Logger, site *Site, res *record.RunResult, dir string) {
	if res.Stage != record.StageFailed {
		res.Stage = record.StageSaved
	}
	paths, err := site.Report(*res).Save(dir)
	if err != nil {
		log.ErrorContext(ctx, "saving report failed", "err", err)
		if res.Error != "" {
			err = fmt.Errorf("%s; %w", res.Error, err)
		}
		res.Fail(err)
		return
	}
	log.InfoContext(ctx, "report saved", "files", paths, "stage", res.Stage)
}
