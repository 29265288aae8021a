// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/quote-scraper/internal/console"
	"github.com/pdiddy/quote-scraper/internal/export"
	"github.com/pdiddy/quote-scraper/internal/httputil"
	"github.com/pdiddy/quote-scraper/pkg/types"
)

const twoQuotesHTML = `<html><body>
<div class="quote"><span class="text">A</span><small class="author">B</small>
  <div class="tags"><a class="tag" href="/tag/x">x</a><a class="tag" href="/tag/y">y</a></div></div>
<div class="quote"><span class="text">C</span></div>
</body></html>`

// newPageServer serves body with status on every path.
func newPageServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func testConfig(t *testing.T, url string) types.Config {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.HTTP.URL = url
	cfg.HTTP.Timeout = 2 * time.Second
	cfg.OutputPath = filepath.Join(t.TempDir(), "scraped_data.csv")
	return cfg
}

func runScrape(t *testing.T, cfg types.Config, opts Options) (Summary, string) {
	t.Helper()
	var buf bytes.Buffer
	sum := Run(context.Background(), httputil.NewClient(cfg.HTTP), cfg, opts, console.New(&buf, false))
	return sum, buf.String()
}

func TestRun_WritesRecords(t *testing.T) {
	ts := newPageServer(t, http.StatusOK, twoQuotesHTML)
	cfg := testConfig(t, ts.URL)

	sum, out := runScrape(t, cfg, Options{})

	require.NoError(t, sum.Err)
	assert.True(t, sum.Saved)
	assert.Equal(t, 2, sum.Records)
	assert.Zero(t, sum.Skipped)

	data, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "quote,author,tags\r\nA,B,\"x, y\"\r\nC,N/A,\r\n", string(data))

	assert.Contains(t, out, "Fetching data from website...")
	assert.Contains(t, out, "Successfully scraped 2 quotes!")
	assert.Contains(t, out, "Data saved to '"+cfg.OutputPath+"'")
	assert.True(t, strings.Index(out, "Fetching") < strings.Index(out, "Successfully"))
}

func TestRun_Verify(t *testing.T) {
	ts := newPageServer(t, http.StatusOK, twoQuotesHTML)
	cfg := testConfig(t, ts.URL)

	_, out := runScrape(t, cfg, Options{Verify: true})

	assert.Contains(t, out, "Verified 2 rows in '"+cfg.OutputPath+"'")
}

func TestRun_FetchNotFound(t *testing.T) {
	ts := newPageServer(t, http.StatusNotFound, "missing")
	cfg := testConfig(t, ts.URL)

	sum, out := runScrape(t, cfg, Options{})

	var fe *httputil.FetchError
	require.True(t, errors.As(sum.Err, &fe), "want *FetchError, got %T", sum.Err)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.False(t, sum.Saved)
	assert.Contains(t, out, "error fetching the website:")
	assert.NotContains(t, out, "Successfully scraped")

	_, err := os.Stat(cfg.OutputPath)
	assert.True(t, os.IsNotExist(err), "no output file expected")
}

func TestRun_FetchUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	cfg := testConfig(t, ts.URL)
	ts.Close()

	sum, out := runScrape(t, cfg, Options{})

	assert.Error(t, sum.Err)
	assert.Contains(t, out, "error fetching the website:")
}

func TestRun_EmptyPageKeepsPreviousFile(t *testing.T) {
	ts := newPageServer(t, http.StatusOK, `<html><body><p>no quotes today</p></body></html>`)
	cfg := testConfig(t, ts.URL)
	require.NoError(t, os.WriteFile(cfg.OutputPath, []byte("from last run\n"), 0o644))

	sum, out := runScrape(t, cfg, Options{})

	require.NoError(t, sum.Err)
	assert.False(t, sum.Saved)
	assert.Zero(t, sum.Records)
	assert.Contains(t, out, "warning: No data to save!")
	assert.Contains(t, out, "Successfully scraped 0 quotes!")
	assert.NotContains(t, out, "Data saved")

	data, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "from last run\n", string(data))
}

func TestRun_SaveFailureIsReported(t *testing.T) {
	ts := newPageServer(t, http.StatusOK, twoQuotesHTML)
	cfg := testConfig(t, ts.URL)
	cfg.OutputPath = filepath.Join(t.TempDir(), "missing-dir", "out.csv")

	sum, out := runScrape(t, cfg, Options{})

	var we *export.WriteError
	require.True(t, errors.As(sum.Err, &we), "want *WriteError, got %T", sum.Err)
	assert.False(t, sum.Saved)
	assert.Equal(t, 2, sum.Records)
	assert.Contains(t, out, "error saving to CSV:")
}

func TestRun_InvalidBytesAreReplaced(t *testing.T) {
	page := "<html><body>" +
		`<div class="quote"><span class="text">ok</span><small class="author">A</small></div>` +
		"<div class=\"quote\"><span class=\"text\">\xff</span><small class=\"author\">B</small></div>" +
		"</body></html>"
	ts := newPageServer(t, http.StatusOK, page)
	cfg := testConfig(t, ts.URL)

	sum, out := runScrape(t, cfg, Options{})

	require.NoError(t, sum.Err)
	assert.Equal(t, 2, sum.Records)
	assert.Zero(t, sum.Skipped)
	assert.NotContains(t, out, "error processing a quote")

	records, err := export.Load(cfg.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, []types.Record{
		{Quote: "ok", Author: "A", Tags: ""},
		{Quote: "\uFFFD", Author: "B", Tags: ""},
	}, records)
}

func TestRun_UndeclaredUTF8Page(t *testing.T) {
	page := "<html><head><title>" + strings.Repeat("a", 1100) + "</title></head><body>" +
		`<div class="quote"><span class="text">“Hi”</span><small class="author">Zoë</small></div>` +
		"</body></html>"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, page)
	}))
	defer ts.Close()
	cfg := testConfig(t, ts.URL)

	sum, _ := runScrape(t, cfg, Options{})
	require.NoError(t, sum.Err)

	records, err := export.Load(cfg.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, []types.Record{{Quote: "“Hi”", Author: "Zoë", Tags: ""}}, records)
}

func TestRun_InvalidSelector(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:0/")
	cfg.Selectors.Container = "div[["

	sum, out := runScrape(t, cfg, Options{})

	assert.Error(t, sum.Err)
	assert.Contains(t, out, "unexpected error:")
	assert.NotContains(t, out, "Fetching data")
}

func TestListLinks_FewerThanLimit(t *testing.T) {
	ts := newPageServer(t, http.StatusOK,
		`<html><body><a href="/a">Alpha</a><p><a href="/b"> Beta </a></p><a>  </a></body></html>`)
	cfg := testConfig(t, ts.URL)

	var buf bytes.Buffer
	links := ListLinks(context.Background(), httputil.NewClient(cfg.HTTP), cfg, console.New(&buf, false))

	require.Len(t, links, 3)
	want := "\nSample Links Found:\n" +
		"1. Alpha -> /a\n" +
		"2. Beta -> /b\n" +
		"3. No text -> N/A\n"
	assert.Equal(t, want, buf.String())
}

func TestListLinks_StopsAtLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 12; i++ {
		b.WriteString(`<a href="/p">link</a>`)
	}
	b.WriteString("</body></html>")
	ts := newPageServer(t, http.StatusOK, b.String())
	cfg := testConfig(t, ts.URL)

	var buf bytes.Buffer
	links := ListLinks(context.Background(), httputil.NewClient(cfg.HTTP), cfg, console.New(&buf, false))

	assert.Len(t, links, types.DefaultLinkLimit)
	assert.Contains(t, buf.String(), "5. link -> /p\n")
	assert.NotContains(t, buf.String(), "6. ")
}

func TestListLinks_FetchError(t *testing.T) {
	ts := newPageServer(t, http.StatusInternalServerError, "")
	cfg := testConfig(t, ts.URL)

	var buf bytes.Buffer
	links := ListLinks(context.Background(), httputil.NewClient(cfg.HTTP), cfg, console.New(&buf, false))

	assert.Nil(t, links)
	assert.True(t, strings.HasPrefix(buf.String(), "error: "), "got %q", buf.String())
	assert.NotContains(t, buf.String(), "Sample Links Found")
}
