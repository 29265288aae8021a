// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP helpers shared by the scrape and link
// listing paths: a bounded-timeout client and a single-shot page fetch.
package httputil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"

	"github.com/pdiddy/quote-scraper/pkg/types"
)

// FetchError reports a failed page fetch: a transport failure (DNS, refused
// connection, timeout) or a non-2xx response. StatusCode is zero for transport
// failures.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: HTTP %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Page is a fetched document.
type Page struct {
	URL         string
	StatusCode  int
	ContentType string

	// Encoding is the charset declared by the server or inferred from the body
	// (BOM, <meta charset>, content sniffing). A body that is valid UTF-8 and
	// carries no Content-Type charset or BOM is taken as UTF-8.
	Encoding string

	// Body is the raw, undecoded response body.
	Body []byte
}

// UTF8Reader returns a reader over Body decoded from Encoding to UTF-8.
// UTF-8 bodies and unknown encodings are returned as the raw bytes, so
// malformed sequences reach the extractor instead of being replaced.
func (p *Page) UTF8Reader() io.Reader {
	if p.Encoding == "utf-8" {
		return bytes.NewReader(p.Body)
	}
	r, err := charset.NewReaderLabel(p.Encoding, bytes.NewReader(p.Body))
	if err != nil {
		return bytes.NewReader(p.Body)
	}
	return r
}

// NewClient returns a client whose requests fail after cfg.Timeout.
// It never retries.
func NewClient(cfg types.HTTPConfig) *resty.Client {
	return resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)
}

// Fetch performs one GET of url and returns the page. Any transport error or
// non-2xx status is returned as a *FetchError.
func Fetch(ctx context.Context, client *resty.Client, url string) (*Page, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("url", url).Msg("fetching page")

	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status %q", resp.Status()),
		}
	}

	body := resp.Body()
	contentType := resp.Header().Get("Content-Type")
	_, encoding, certain := charset.DetermineEncoding(body, contentType)
	// DetermineEncoding sniffs only the first 1024 bytes and falls back to
	// windows-1252. An undeclared body that is valid UTF-8 throughout is UTF-8.
	if !certain && encoding != "utf-8" && utf8.Valid(body) {
		encoding = "utf-8"
	}

	logger.Debug().
		Str("url", url).
		Int("status_code", resp.StatusCode()).
		Int("size", len(body)).
		Str("encoding", encoding).
		Bool("encoding_certain", certain).
		Dur("elapsed", resp.Time()).
		Msg("page fetched")

	return &Page{
		URL:         url,
		StatusCode:  resp.StatusCode(),
		ContentType: contentType,
		Encoding:    encoding,
		Body:        body,
	}, nil
}
