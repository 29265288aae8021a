// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls quote records and hyperlinks out of a parsed HTML page.
//
// Every field lookup goes through First, which reports whether the element
// exists. Each call site picks its own fallback: a missing quote text or author
// becomes the configured fallback ("N/A" by default) while missing tags become
// the empty string.
package extract

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/rs/zerolog"

	"github.com/pdiddy/quote-scraper/pkg/types"
)

// ItemError records why one container produced no record.
type ItemError struct {
	// Index is the zero-based position of the container in the document.
	Index int
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("quote #%d: %v", e.Index+1, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }

// Result is the outcome of extracting every container on a page.
type Result struct {
	// Records holds the successfully extracted records in document order.
	Records []types.Record

	// Failures holds one entry per skipped container, in document order.
	Failures []ItemError
}

// Extractor holds compiled selectors and the fallback values.
type Extractor struct {
	container cascadia.Selector
	text      cascadia.Selector
	author    cascadia.Selector
	tag       cascadia.Selector
	link      cascadia.Selector
	fallbacks types.Fallbacks

	// textOf reads the visible text of an element.
	textOf func(*goquery.Selection) string
}

// New compiles the selectors. An invalid selector is reported with the name
// of the field it came from.
func New(sel types.Selectors, fb types.Fallbacks) (*Extractor, error) {
	e := &Extractor{fallbacks: fb, textOf: (*goquery.Selection).Text}
	for _, s := range []struct {
		name string
		src  string
		dst  *cascadia.Selector
	}{
		{"container", sel.Container, &e.container},
		{"text", sel.Text, &e.text},
		{"author", sel.Author, &e.author},
		{"tag", sel.Tag, &e.tag},
		{"link", sel.Link, &e.link},
	} {
		compiled, err := cascadia.Compile(s.src)
		if err != nil {
			return nil, fmt.Errorf("compiling %s selector %q: %w", s.name, s.src, err)
		}
		*s.dst = compiled
	}
	return e, nil
}

// Parse builds a queryable tree from an HTML document.
func Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return doc, nil
}

// First returns the first descendant of s matching m, and whether one exists.
func First(s *goquery.Selection, m goquery.Matcher) (*goquery.Selection, bool) {
	found := s.FindMatcher(m).First()
	return found, found.Length() > 0
}

// Records extracts one record per container. A container that fails is
// logged, listed in Result.Failures and skipped.
func (e *Extractor) Records(ctx context.Context, doc *goquery.Document) Result {
	logger := zerolog.Ctx(ctx)

	var res Result
	doc.FindMatcher(e.container).Each(func(i int, s *goquery.Selection) {
		rec, err := e.record(s)
		if err != nil {
			ie := ItemError{Index: i, Err: err}
			logger.Warn().Err(err).Int("index", i).Msg("skipping quote")
			res.Failures = append(res.Failures, ie)
			return
		}
		res.Records = append(res.Records, rec)
	})

	logger.Debug().
		Int("records", len(res.Records)).
		Int("failures", len(res.Failures)).
		Msg("extraction finished")
	return res
}

// record extracts the fields of a single container.
func (e *Extractor) record(s *goquery.Selection) (rec types.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered: %v", r)
		}
	}()

	rec.Quote = e.fallbacks.Text
	if el, ok := First(s, e.text); ok {
		rec.Quote = normalize(e.textOf(el))
	}

	rec.Author = e.fallbacks.Author
	if el, ok := First(s, e.author); ok {
		rec.Author = normalize(e.textOf(el))
	}

	// No tag elements means an empty field, not the fallback.
	var tags []string
	s.FindMatcher(e.tag).Each(func(_ int, t *goquery.Selection) {
		tags = append(tags, normalize(e.textOf(t)))
	})
	rec.Tags = strings.Join(tags, types.TagSeparator)
	return rec, nil
}

// Links returns up to limit hyperlinks in document order.
func (e *Extractor) Links(doc *goquery.Document, limit int) []types.Link {
	var links []types.Link
	if limit <= 0 {
		return links
	}
	doc.FindMatcher(e.link).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := normalize(e.textOf(a))
		if text == "" {
			text = e.fallbacks.NoText
		}
		href, ok := a.Attr("href")
		if !ok {
			href = e.fallbacks.Href
		}
		links = append(links, types.Link{Text: text, Href: href})
		return len(links) < limit
	})
	return links
}

// normalize trims s, collapses inner whitespace runs to a single space and
// replaces invalid UTF-8 sequences with U+FFFD.
func normalize(s string) string {
	return strings.ToValidUTF8(strings.Join(strings.Fields(s), " "), "\uFFFD")
}
