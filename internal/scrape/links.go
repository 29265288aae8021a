// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/pdiddy/quote-scraper/internal/console"
	"github.com/pdiddy/quote-scraper/internal/extract"
	"github.com/pdiddy/quote-scraper/internal/httputil"
	"github.com/pdiddy/quote-scraper/pkg/types"
)

// ListLinks fetches cfg.HTTP.URL on its own and prints the first
// cfg.LinkLimit hyperlinks as "i. text -> href". It returns the printed links,
// or nil after reporting a failure.
func ListLinks(ctx context.Context, client *resty.Client, cfg types.Config, p *console.Printer) (links []types.Link) {
	defer func() {
		if r := recover(); r != nil {
			links = nil
			p.Error("error", fmt.Errorf("panic: %v", r))
		}
	}()

	ex, err := extract.New(cfg.Selectors, cfg.Fallbacks)
	if err != nil {
		p.Error("error", err)
		return nil
	}

	page, err := httputil.Fetch(ctx, client, cfg.HTTP.URL)
	if err != nil {
		p.Error("error", err)
		return nil
	}

	doc, err := extract.Parse(page.UTF8Reader())
	if err != nil {
		p.Error("error", err)
		return nil
	}

	links = ex.Links(doc, cfg.LinkLimit)
	p.Info("")
	p.Info("Sample Links Found:")
	for i, l := range links {
		p.Info("%d. %s -> %s", i+1, l.Text, l.Href)
	}
	return links
}
