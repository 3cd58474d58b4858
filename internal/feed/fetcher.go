package feed

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

const feedAcceptHeader = "application/atom+xml, application/rss+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5"

// Result is the outcome for a single source: a parsed document, a "not
// modified" signal, or a failure. Exactly one of Doc, NotModified, or Err is
// meaningful.
type Result struct {
	Source Source
	Doc    *gofeed.Feed
	// ETag is the validator returned by the server, empty when absent.
	ETag        string
	NotModified bool
	Err         error
}

// Readable reports whether the source produced a syntactically readable
// document this cycle (a 304 counts: the previously validated document still
// stands).
func (r Result) Readable() bool {
	return r.Err == nil
}

// Fetcher retrieves feed documents over HTTP. Individual source failures are
// isolated; there are no retries within a cycle.
type Fetcher struct {
	client  *http.Client
	parser  *gofeed.Parser
	limiter *rate.Limiter
	timeout time.Duration
}

// NewFetcher creates a fetcher with a per-source timeout. Outbound requests
// share a rate limiter so a large source list cannot burst.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		parser:  gofeed.NewParser(),
		limiter: rate.NewLimiter(rate.Limit(20), 5),
		timeout: timeout,
	}
}

// Fetch retrieves and parses one source. A non-empty etag is sent as
// If-None-Match; a 304 response comes back as NotModified with the etag
// echoed, items untouched.
func (f *Fetcher) Fetch(ctx context.Context, src Source, etag string) Result {
	res := Result{Source: src, ETag: etag}

	if err := f.limiter.Wait(ctx); err != nil {
		res.Err = fmt.Errorf("fetch %s: %w", src.Name, err)
		return res
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		res.Err = fmt.Errorf("fetch %s: %w", src.Name, err)
		return res
	}
	req.Header.Set("User-Agent", "newsdeck/1.0")
	req.Header.Set("Accept", feedAcceptHeader)
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		res.Err = fmt.Errorf("fetch %s: %w", src.Name, err)
		return res
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotModified {
		res.NotModified = true
		return res
	}
	if resp.StatusCode != http.StatusOK {
		res.Err = fmt.Errorf("fetch %s: unexpected status %d", src.Name, resp.StatusCode)
		return res
	}

	doc, err := f.parser.Parse(resp.Body)
	if err != nil {
		res.Err = fmt.Errorf("parse %s: %w", src.Name, err)
		return res
	}

	res.Doc = doc
	res.ETag = resp.Header.Get("ETag")
	return res
}

// FetchAll retrieves every source concurrently and waits for all of them to
// settle. A failing source never aborts its siblings; it simply carries an
// error in its slot. Results are returned in source order.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source, validators map[string]string) []Result {
	results := make([]Result, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			results[i] = f.Fetch(ctx, src, validators[src.URL])
		}(i, src)
	}
	wg.Wait()

	return results
}

// Report summarizes a fan-out: how many sources were attempted and how many
// produced a readable document.
type Report struct {
	Attempted int
	Succeeded int
}

// Summarize counts readable results.
func Summarize(results []Result) Report {
	rep := Report{Attempted: len(results)}
	for _, r := range results {
		if r.Readable() {
			rep.Succeeded++
		}
	}
	return rep
}
