package aggregate

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdeckapp/newsdeck/internal/feed"
)

func art(title string, published time.Time) feed.Article {
	return feed.Article{Title: title, Link: "http://example.com/" + title, Published: published}
}

func TestMerge_NoDuplicateTitles(t *testing.T) {
	now := time.Now()
	got := Merge([][]feed.Article{
		{art("A", now), art("B", now.Add(-time.Hour))},
		{art("A", now.Add(-2 * time.Hour)), art("C", now.Add(-3 * time.Hour))},
	})

	seen := make(map[string]bool)
	for _, a := range got {
		assert.False(t, seen[a.Title], "duplicate title %q", a.Title)
		seen[a.Title] = true
	}
	assert.Len(t, got, 3)
}

func TestMerge_LastWriteWins(t *testing.T) {
	now := time.Now()
	first := feed.Article{Title: "AI raises $1B", Source: "Wire", Published: now}
	second := feed.Article{Title: "AI raises $1B", Source: "Times", Published: now}

	got := Merge([][]feed.Article{{first}, {second}})

	require.Len(t, got, 1)
	assert.Equal(t, "Times", got[0].Source, "later entry must replace the earlier one")
}

func TestMerge_SortedByRecency(t *testing.T) {
	now := time.Now()
	got := Merge([][]feed.Article{{
		art("old", now.Add(-3*time.Hour)),
		art("new", now),
		art("mid", now.Add(-time.Hour)),
	}})

	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Published.After(got[i-1].Published),
			"articles must be in non-increasing publication order")
	}
	assert.Equal(t, "new", got[0].Title)
}

func TestMerge_CappedAtMaxArticles(t *testing.T) {
	now := time.Now()
	var batch []feed.Article
	for i := 0; i < 250; i++ {
		batch = append(batch, art(fmt.Sprintf("title-%d", i), now.Add(-time.Duration(i)*time.Minute)))
	}

	got := Merge([][]feed.Article{batch})

	assert.Len(t, got, MaxArticles)
	// The newest articles survive the cut.
	assert.Equal(t, "title-0", got[0].Title)
}

func TestBuild_ZeroSourcesSucceeded(t *testing.T) {
	now := time.Now()
	env := Build(nil, 0, 4, now)

	assert.False(t, env.Success)
	assert.Equal(t, 0, env.FeedsProcessed)
	assert.Equal(t, 4, env.TotalFeeds)
	assert.Empty(t, env.Articles)
	assert.Equal(t, now, env.Timestamp)
}

func TestBuild_EmptyFeedStillSucceeds(t *testing.T) {
	env := Build([][]feed.Article{{}}, 2, 3, time.Now())

	assert.True(t, env.Success)
	assert.Equal(t, 2, env.FeedsProcessed)
	assert.Empty(t, env.Articles)
}
