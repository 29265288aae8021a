// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape runs the two user-facing routines: the quote scrape
// (fetch, extract, save) and the link listing.
//
// Neither routine returns an error. Every failure is printed to the console
// with a prefix naming the stage, and the routine returns normally.
package scrape

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/pdiddy/quote-scraper/internal/console"
	"github.com/pdiddy/quote-scraper/internal/export"
	"github.com/pdiddy/quote-scraper/internal/extract"
	"github.com/pdiddy/quote-scraper/internal/httputil"
	"github.com/pdiddy/quote-scraper/pkg/types"
)

// Console prefixes, one per failure class.
const (
	prefixFetch      = "error fetching the website"
	prefixRecord     = "error processing a quote"
	prefixSave       = "error saving to CSV"
	prefixUnexpected = "unexpected error"
)

// Options adjusts a scrape run.
type Options struct {
	// Verify re-reads the saved file and reports its row count.
	Verify bool
}

// Summary describes how a scrape run ended.
type Summary struct {
	// Records is the number of records extracted.
	Records int

	// Skipped is the number of containers dropped by per-record failures.
	Skipped int

	// Saved reports whether the output file was written.
	Saved bool

	// Err is the failure that ended the run early, nil when the run completed.
	// An empty page is not a failure.
	Err error
}

// Run fetches cfg.HTTP.URL, extracts the quote records and saves them to
// cfg.OutputPath, printing status to p at each stage.
func Run(ctx context.Context, client *resty.Client, cfg types.Config, opts Options, p *console.Printer) (sum Summary) {
	logger := zerolog.Ctx(ctx)
	defer func() {
		if r := recover(); r != nil {
			sum.Err = fmt.Errorf("panic: %v", r)
			logger.Error().Interface("panic", r).Msg("scrape aborted")
			p.Error(prefixUnexpected, sum.Err)
		}
	}()

	ex, err := extract.New(cfg.Selectors, cfg.Fallbacks)
	if err != nil {
		sum.Err = err
		p.Error(prefixUnexpected, err)
		return sum
	}

	p.Info("Fetching data from website...")
	page, err := httputil.Fetch(ctx, client, cfg.HTTP.URL)
	if err != nil {
		sum.Err = err
		reportFetchError(p, err)
		return sum
	}

	doc, err := extract.Parse(page.UTF8Reader())
	if err != nil {
		sum.Err = err
		p.Error(prefixUnexpected, err)
		return sum
	}

	res := ex.Records(ctx, doc)
	for _, f := range res.Failures {
		p.Error(prefixRecord, f)
	}
	sum.Records = len(res.Records)
	sum.Skipped = len(res.Failures)

	err = export.Save(cfg.OutputPath, res.Records)
	switch {
	case errors.Is(err, export.ErrNoRecords):
		p.Warn("No data to save!")
	case err != nil:
		sum.Err = err
		var we *export.WriteError
		if errors.As(err, &we) {
			p.Error(prefixSave, err)
		} else {
			p.Error(prefixUnexpected, err)
		}
	default:
		sum.Saved = true
	}

	p.Info("")
	p.Success("Successfully scraped %d quotes!", sum.Records)
	if sum.Saved {
		p.Info("Data saved to '%s'", cfg.OutputPath)
		if opts.Verify {
			verify(p, cfg.OutputPath, sum.Records)
		}
	}

	logger.Info().
		Int("records", sum.Records).
		Int("skipped", sum.Skipped).
		Bool("saved", sum.Saved).
		Str("output", cfg.OutputPath).
		Msg("scrape finished")
	return sum
}

func verify(p *console.Printer, path string, want int) {
	got, err := export.Load(path)
	if err != nil {
		p.Error(prefixUnexpected, fmt.Errorf("verifying %s: %w", path, err))
		return
	}
	if len(got) != want {
		p.Warn("'%s' holds %d rows, expected %d", path, len(got), want)
		return
	}
	p.Info("Verified %d rows in '%s'", len(got), path)
}

func reportFetchError(p *console.Printer, err error) {
	var fe *httputil.FetchError
	if errors.As(err, &fe) {
		p.Error(prefixFetch, err)
		return
	}
	p.Error(prefixUnexpected, err)
}
