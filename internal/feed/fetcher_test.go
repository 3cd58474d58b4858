package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Wire</title>
<item><title>First</title><link>http://example.com/1</link><description>d</description></item>
<item><title>Second</title><link>http://example.com/2</link><description>d</description></item>
</channel></rss>`

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(rssDoc))
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)
	res := f.Fetch(context.Background(), Source{Name: "wire", URL: srv.URL}, "")

	require.NoError(t, res.Err)
	require.NotNil(t, res.Doc)
	assert.Len(t, res.Doc.Items, 2)
	assert.Equal(t, `"v1"`, res.ETag)
	assert.True(t, res.Readable())
}

func TestFetch_NotModified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		_, _ = w.Write([]byte(rssDoc))
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)
	res := f.Fetch(context.Background(), Source{Name: "wire", URL: srv.URL}, `"v1"`)

	require.NoError(t, res.Err)
	assert.True(t, res.NotModified)
	assert.Nil(t, res.Doc)
	assert.Equal(t, `"v1"`, res.ETag, "validator must survive a 304")
}

func TestFetch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)
	res := f.Fetch(context.Background(), Source{Name: "broken", URL: srv.URL}, "")

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "broken")
	assert.False(t, res.Readable())
}

func TestFetch_MalformedDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not a feed"))
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)
	res := f.Fetch(context.Background(), Source{Name: "garbled", URL: srv.URL}, "")

	require.Error(t, res.Err)
	assert.False(t, res.Readable())
}

func TestFetchAll_IsolatesFailures(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssDoc))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	f := NewFetcher(5 * time.Second)
	results := f.FetchAll(context.Background(), []Source{
		{Name: "good", URL: good.URL},
		{Name: "bad", URL: bad.URL},
	}, nil)

	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)

	rep := Summarize(results)
	assert.Equal(t, 2, rep.Attempted)
	assert.Equal(t, 1, rep.Succeeded)
}
