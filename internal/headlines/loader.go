// Package headlines runs one load cycle: serve fresh cache, revalidate stale
// records with conditional fetches, and fall back to stale data when a
// source is unreachable.
package headlines

import (
	"context"
	"log"
	"time"

	"github.com/newsdeckapp/newsdeck/internal/aggregate"
	"github.com/newsdeckapp/newsdeck/internal/classify"
	"github.com/newsdeckapp/newsdeck/internal/feed"
	"github.com/newsdeckapp/newsdeck/internal/store"
)

// Fetcher is the slice of the feed fetcher the loader needs.
type Fetcher interface {
	FetchAll(ctx context.Context, sources []feed.Source, validators map[string]string) []feed.Result
}

// Cache is the slice of the freshness store the loader needs.
type Cache interface {
	Snapshot(id string) (store.Record, bool)
	State(id string, ttl time.Duration, now time.Time) store.Freshness
	Put(id string, items []feed.Article, etag string, now time.Time) error
	Touch(id string, now time.Time) error
}

// SourceStatus records how one source contributed to the cycle.
type SourceStatus struct {
	Source feed.Source
	// Served tells where the items came from.
	Served ServeOrigin
	// Reason is the human-readable failure description, empty on success.
	Reason string
}

// ServeOrigin enumerates where a source's contribution came from.
type ServeOrigin int

const (
	// ServedNothing means the source failed with no cached record to fall
	// back on.
	ServedNothing ServeOrigin = iota
	// ServedCache means a fresh record was served without a network call.
	ServedCache
	// ServedValidated means a conditional fetch came back "not modified".
	ServedValidated
	// ServedNetwork means new data was fetched and stored.
	ServedNetwork
	// ServedStale means the fetch failed and the stale record was served.
	ServedStale
)

// Result is the outcome of one load cycle.
type Result struct {
	Envelope aggregate.Envelope
	// Degraded is set when at least one source fell back to stale data or
	// contributed nothing.
	Degraded bool
	Statuses []SourceStatus
}

// Loader composes the fetcher, the cache, and the classifier into the
// fetch → parse → classify → dedupe → cache pipeline. A Loader is driven by a
// single consumer; a new cycle starts only after the previous one returned,
// which is after all its cache writes settled.
type Loader struct {
	fetcher  Fetcher
	cache    Cache
	taxonomy classify.Taxonomy
	ttl      time.Duration
	now      func() time.Time
}

// New creates a loader. A nil clock defaults to time.Now.
func New(fetcher Fetcher, cache Cache, taxonomy classify.Taxonomy, ttl time.Duration, clock func() time.Time) *Loader {
	if clock == nil {
		clock = time.Now
	}
	if ttl <= 0 {
		ttl = store.DefaultTTL
	}
	return &Loader{fetcher: fetcher, cache: cache, taxonomy: taxonomy, ttl: ttl, now: clock}
}

// Load runs one cycle over the configured sources. Failures below the
// aggregate are absorbed into per-source statuses; the only degenerate
// outcome is an envelope with no articles.
func (l *Loader) Load(ctx context.Context, sources []feed.Source) Result {
	now := l.now()

	batches := make([][]feed.Article, len(sources))
	statuses := make([]SourceStatus, len(sources))
	processed := 0

	// Fresh records are served directly; everything else goes to the
	// network with its stored validator.
	var toFetch []feed.Source
	var fetchAt []int
	validators := make(map[string]string)

	for i, src := range sources {
		statuses[i].Source = src
		id := store.KeyFor(src.URL)
		if l.cache.State(id, l.ttl, now) == store.Fresh {
			rec, _ := l.cache.Snapshot(id)
			batches[i] = rec.Items
			statuses[i].Served = ServedCache
			processed++
			continue
		}
		if rec, ok := l.cache.Snapshot(id); ok && rec.ETag != "" {
			validators[src.URL] = rec.ETag
		}
		toFetch = append(toFetch, src)
		fetchAt = append(fetchAt, i)
	}

	if len(toFetch) > 0 {
		results := l.fetcher.FetchAll(ctx, toFetch, validators)
		for j, res := range results {
			i := fetchAt[j]
			id := store.KeyFor(res.Source.URL)

			switch {
			case res.NotModified:
				rec, ok := l.cache.Snapshot(id)
				if !ok {
					// Validator without a record; nothing to serve.
					statuses[i].Served = ServedNothing
					statuses[i].Reason = "revalidated but record missing"
					continue
				}
				if err := l.cache.Touch(id, now); err != nil {
					log.Printf("headlines: %v", err)
				}
				batches[i] = rec.Items
				statuses[i].Served = ServedValidated
				processed++

			case res.Err == nil:
				articles := feed.Normalize(res.Doc, now, l.taxonomy.Classify)
				if err := l.cache.Put(id, articles, res.ETag, now); err != nil {
					log.Printf("headlines: %v", err)
				}
				batches[i] = articles
				statuses[i].Served = ServedNetwork
				processed++

			default:
				statuses[i].Reason = res.Err.Error()
				if rec, ok := l.cache.Snapshot(id); ok {
					batches[i] = rec.Items
					statuses[i].Served = ServedStale
				} else {
					statuses[i].Served = ServedNothing
				}
			}
		}
	}

	degraded := false
	for _, st := range statuses {
		if st.Served == ServedStale || st.Served == ServedNothing {
			degraded = true
		}
	}

	return Result{
		Envelope: aggregate.Build(batches, processed, len(sources), now),
		Degraded: degraded,
		Statuses: statuses,
	}
}
