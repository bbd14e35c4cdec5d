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

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Tech News</title>
    <link>https://example.com</link>
    <item>
      <title>First article</title>
      <link>https://example.com/first</link>
      <description>First summary</description>
      <pubDate>Mon, 05 Jan 2026 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>No timestamp</title>
      <link>https://example.com/no-timestamp</link>
      <description>Entry without a publish date</description>
    </item>
    <item>
      <title>Second article</title>
      <link>https://example.com/second</link>
      <description>Second summary</description>
      <pubDate>Sun, 04 Jan 2026 09:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestFetch_ParsesEntriesInFeedOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	source := NewSource(server.Client(), "test-agent")

	title, entries, err := source.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Example Tech News", title)
	require.Len(t, entries, 2, "entry without publish date should be dropped")

	assert.Equal(t, "First article", entries[0].Title)
	assert.Equal(t, "https://example.com/first", entries[0].Link)
	assert.Equal(t, "First summary", entries[0].Summary)
	assert.Equal(t, time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC), entries[0].Published.UTC())

	assert.Equal(t, "Second article", entries[1].Title)
}

func TestFetch_SendsUserAgent(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	source := NewSource(server.Client(), "TechNews Aggregator/1.0")

	_, _, err := source.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "TechNews Aggregator/1.0", gotAgent)
}

func TestFetch_HTTPErrorFailsWholeFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewSource(server.Client(), "test-agent")

	_, _, err := source.Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestFetch_MalformedDocumentFailsWholeFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a feed"))
	}))
	defer server.Close()

	source := NewSource(server.Client(), "test-agent")

	_, _, err := source.Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestFetch_UnreachableHost(t *testing.T) {
	source := NewSource(&http.Client{Timeout: 100 * time.Millisecond}, "test-agent")

	_, _, err := source.Fetch(context.Background(), "http://127.0.0.1:1/feed.xml")
	assert.Error(t, err)
}
