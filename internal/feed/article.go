// Package feed fetches remote syndication feeds and normalizes their entries
// into canonical articles.
package feed

import "time"

// DefaultSourceLabel is used when no source name can be extracted from an
// entry body.
const DefaultSourceLabel = "News"

// Article is the normalized unit flowing through the pipeline. Once built it
// is never mutated, only replaced by a fresher fetch cycle.
type Article struct {
	// Title doubles as the deduplication key and is never empty.
	Title string `json:"title"`
	// Link is the canonical URL, used as a stable display identity. It is
	// not validated.
	Link      string    `json:"link"`
	Excerpt   string    `json:"excerpt"`
	Source    string    `json:"source"`
	Category  string    `json:"category"`
	Published time.Time `json:"published"`
}

// Source is one configured feed endpoint.
type Source struct {
	Name string
	URL  string
}
