package feed

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const (
	placeholderTitle = "(untitled)"
	excerptLimit     = 300
)

// Normalize converts a parsed feed document into articles. Missing fields
// degrade to defaults instead of failing the document: entries without a
// title get a placeholder, entries without a date get the ingestion time.
// classify maps (title, plainBody) to a category label.
func Normalize(doc *gofeed.Feed, now time.Time, classify func(title, body string) string) []Article {
	if doc == nil {
		return nil
	}

	articles := make([]Article, 0, len(doc.Items))
	for _, item := range doc.Items {
		if item == nil {
			continue
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = placeholderTitle
		}

		body := item.Content
		if body == "" {
			body = item.Description
		}
		plain := plainText(body)

		published := now
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		articles = append(articles, Article{
			Title:     title,
			Link:      item.Link,
			Excerpt:   truncate(plain, excerptLimit),
			Source:    sourceLabel(plain),
			Category:  classify(title, plain),
			Published: published,
		})
	}
	return articles
}

// plainText strips embedded markup and decodes HTML entities, collapsing all
// whitespace to single spaces.
func plainText(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// sourceLabel extracts an origin label from a trailing "- Source Name"
// pattern on the markup-stripped body text, so an attribution wrapped in
// markup still resolves. Best effort only: any body ending in " - X" will
// attribute X, and anything else yields the default label.
func sourceLabel(body string) string {
	idx := strings.LastIndex(body, " - ")
	if idx < 0 {
		return DefaultSourceLabel
	}
	name := strings.TrimSpace(body[idx+3:])
	if name == "" || len(name) > 80 {
		return DefaultSourceLabel
	}
	return name
}

// truncate caps s at limit runes, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
