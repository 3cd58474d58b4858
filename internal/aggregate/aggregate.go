// Package aggregate merges classified articles from all sources into one
// ranked, deduplicated, bounded result.
package aggregate

import (
	"sort"
	"time"

	"github.com/newsdeckapp/newsdeck/internal/feed"
)

// MaxArticles bounds the ranked result.
const MaxArticles = 100

// Envelope is the JSON-serializable result handed to the consumer layer. An
// empty article list with Success=false is a degraded-but-valid outcome, not
// an error.
type Envelope struct {
	Success        bool           `json:"success"`
	FeedsProcessed int            `json:"feedsProcessed"`
	TotalFeeds     int            `json:"totalFeeds"`
	Articles       []feed.Article `json:"articles"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Merge deduplicates by exact title with last-write-wins semantics over an
// order-preserving mapping, sorts by publication time descending, and caps
// the result at MaxArticles. Two unrelated articles sharing a title merge
// silently; that is the documented tradeoff of keying on title text.
// Ordering of equal timestamps is not guaranteed.
func Merge(batches [][]feed.Article) []feed.Article {
	index := make(map[string]int)
	merged := make([]feed.Article, 0)

	for _, batch := range batches {
		for _, a := range batch {
			if at, ok := index[a.Title]; ok {
				merged[at] = a
				continue
			}
			index[a.Title] = len(merged)
			merged = append(merged, a)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Published.After(merged[j].Published)
	})

	if len(merged) > MaxArticles {
		merged = merged[:MaxArticles]
	}
	return merged
}

// Build assembles the consumer envelope. processed counts sources whose
// document was syntactically readable this cycle; total counts sources
// attempted.
func Build(batches [][]feed.Article, processed, total int, now time.Time) Envelope {
	return Envelope{
		Success:        processed > 0 || total == 0,
		FeedsProcessed: processed,
		TotalFeeds:     total,
		Articles:       Merge(batches),
		Timestamp:      now,
	}
}
