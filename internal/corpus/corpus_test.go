// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

func newTestFetcher(cfg types.FetchConfig) *Fetcher {
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 10000
	}
	return NewFetcher(http.DefaultClient, zerolog.Nop(), cfg)
}

func swapWorksBase(t *testing.T, base string) {
	t.Helper()
	old := openAlexWorksBase
	openAlexWorksBase = base
	t.Cleanup(func() { openAlexWorksBase = old })
}

// workJSON builds a minimal listing entry with an inverted-index abstract.
func workJSON(id, title string) string {
	return fmt.Sprintf(`{
		"id": "https://openalex.org/%s",
		"title": %q,
		"publication_year": 2024,
		"publication_date": "2024-03-01",
		"primary_location": {"source": {"display_name": "Nature Methods"}},
		"authorships": [
			{
				"author": {"id": "https://openalex.org/A1", "display_name": "Ada Lovelace"},
				"institutions": [{"display_name": "Analytical Engine Institute"}]
			}
		],
		"abstract_inverted_index": {"hello": [0], "world": [1]}
	}`, id, title)
}

func TestFetchPagesUntilTarget(t *testing.T) {
	pages := map[string][]string{
		"1": {workJSON("W1", "First"), workJSON("W2", "Second")},
		"2": {workJSON("W3", "Third"), workJSON("W4", "Fourth")},
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "topic:genomics", r.URL.Query().Get("filter"))
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))
		assert.Equal(t, "bench@example.com", r.URL.Query().Get("mailto"))

		results := pages[r.URL.Query().Get("page")]
		fmt.Fprintf(w, `{"meta": {"count": 4}, "results": [%s]}`, strings.Join(results, ","))
	}))
	defer ts.Close()
	swapWorksBase(t, ts.URL+"/works")

	f := newTestFetcher(types.FetchConfig{
		Filter:  "topic:genomics",
		PerPage: 2,
		Mailto:  "bench@example.com",
	})

	var buf bytes.Buffer
	records, err := f.Fetch(context.Background(), 3, &buf)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "https://openalex.org/W1", records[0].ID)
	assert.Equal(t, "Third", records[2].Title)
	assert.Equal(t, "Nature Methods", records[0].Journal)
	assert.Equal(t, "hello world", records[0].Abstract)
	require.Len(t, records[0].Authors, 1)
	assert.Equal(t, "Ada Lovelace", records[0].Authors[0].Name)
	assert.Equal(t, "https://openalex.org/A1", records[0].Authors[0].ID)
	assert.Equal(t, "Analytical Engine Institute", records[0].Authors[0].Affiliation)

	assert.Contains(t, buf.String(), "fetched https://openalex.org/W1 (1/3)")
	assert.Contains(t, buf.String(), "fetched https://openalex.org/W3 (3/3)")
}

func TestFetchStopsOnEmptyPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprintf(w, `{"meta": {"count": 1}, "results": [%s]}`, workJSON("W1", "Only"))
			return
		}
		fmt.Fprint(w, `{"meta": {"count": 1}, "results": []}`)
	}))
	defer ts.Close()
	swapWorksBase(t, ts.URL+"/works")

	f := newTestFetcher(types.FetchConfig{Filter: "topic:rare", PerPage: 25})

	records, err := f.Fetch(context.Background(), 50, new(bytes.Buffer))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFetchDeduplicatesByID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprintf(w, `{"results": [%s, %s]}`, workJSON("W1", "Dup"), workJSON("W1", "Dup"))
		case "2":
			fmt.Fprintf(w, `{"results": [%s]}`, workJSON("W2", "Fresh"))
		default:
			fmt.Fprint(w, `{"results": []}`)
		}
	}))
	defer ts.Close()
	swapWorksBase(t, ts.URL+"/works")

	f := newTestFetcher(types.FetchConfig{Filter: "topic:dup", PerPage: 2})

	records, err := f.Fetch(context.Background(), 2, new(bytes.Buffer))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "https://openalex.org/W1", records[0].ID)
	assert.Equal(t, "https://openalex.org/W2", records[1].ID)
}

func TestFetchSubstitutesSentinels(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/W1") {
			// Single-work lookup for abstract backfill, also missing.
			fmt.Fprint(w, `{"id": "https://openalex.org/W1"}`)
			return
		}
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `{"results": []}`)
			return
		}
		fmt.Fprint(w, `{"results": [{
			"id": "https://openalex.org/W1",
			"authorships": [
				{"author": {"id": "https://openalex.org/A1", "display_name": "Grace Hopper"}, "institutions": []},
				{"author": {"id": "", "display_name": ""}}
			]
		}]}`)
	}))
	defer ts.Close()
	swapWorksBase(t, ts.URL+"/works")

	f := newTestFetcher(types.FetchConfig{Filter: "topic:x", PerPage: 25})

	records, err := f.Fetch(context.Background(), 1, new(bytes.Buffer))
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, SentinelTitle, rec.Title)
	assert.Equal(t, SentinelJournal, rec.Journal)
	assert.Equal(t, SentinelAbstract, rec.Abstract)
	// The nameless authorship is dropped; the institutionless one gets the sentinel.
	require.Len(t, rec.Authors, 1)
	assert.Equal(t, "Grace Hopper", rec.Authors[0].Name)
	assert.Equal(t, SentinelAffiliation, rec.Authors[0].Affiliation)
}

func TestFetchBackfillsAbstract(t *testing.T) {
	var lookups int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/W1") {
			lookups++
			assert.Equal(t, "bench@example.com", r.URL.Query().Get("mailto"))
			fmt.Fprint(w, `{
				"id": "https://openalex.org/W1",
				"abstract_inverted_index": {"recovered": [0], "text": [1]}
			}`)
			return
		}
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `{"results": []}`)
			return
		}
		fmt.Fprint(w, `{"results": [{
			"id": "https://openalex.org/W1",
			"title": "Sparse Listing"
		}]}`)
	}))
	defer ts.Close()
	swapWorksBase(t, ts.URL+"/works")

	f := newTestFetcher(types.FetchConfig{Filter: "topic:x", PerPage: 25, Mailto: "bench@example.com"})

	records, err := f.Fetch(context.Background(), 1, new(bytes.Buffer))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "recovered text", records[0].Abstract)
	assert.Equal(t, 1, lookups)
}

func TestFetchSkipsWorkWithoutID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `{"results": []}`)
			return
		}
		fmt.Fprintf(w, `{"results": [{"title": "Anonymous"}, %s]}`, workJSON("W1", "Named"))
	}))
	defer ts.Close()
	swapWorksBase(t, ts.URL+"/works")

	f := newTestFetcher(types.FetchConfig{Filter: "topic:x", PerPage: 25})

	var buf bytes.Buffer
	records, err := f.Fetch(context.Background(), 5, &buf)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Named", records[0].Title)
	assert.Contains(t, buf.String(), "warning: skipping work")
}

func TestFetchValidatesArguments(t *testing.T) {
	f := newTestFetcher(types.FetchConfig{Filter: "", PerPage: 25})
	_, err := f.Fetch(context.Background(), 10, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty filter")

	f = newTestFetcher(types.FetchConfig{Filter: "topic:x", PerPage: 25})
	_, err = f.Fetch(context.Background(), 0, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target count must be positive")
}

func TestFetchTransportErrorIsFatal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	swapWorksBase(t, ts.URL+"/works")

	f := newTestFetcher(types.FetchConfig{Filter: "topic:x", PerPage: 25})

	_, err := f.Fetch(context.Background(), 1, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestReconstructAbstract(t *testing.T) {
	tests := []struct {
		name  string
		index map[string][]int
		want  string
	}{
		{
			name: "orders words by position",
			index: map[string][]int{
				"brown": {1},
				"quick": {0},
				"fox":   {2},
			},
			want: "quick brown fox",
		},
		{
			name: "repeated words appear at every position",
			index: map[string][]int{
				"the": {0, 2},
				"cat": {1},
				"sat": {3},
			},
			want: "the cat the sat",
		},
		{
			name:  "empty index yields empty string",
			index: map[string][]int{},
			want:  "",
		},
		{
			name:  "nil index yields empty string",
			index: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconstructAbstract(tt.index))
		})
	}
}

func TestNewFetcherDefaults(t *testing.T) {
	f := NewFetcher(http.DefaultClient, zerolog.Nop(), types.FetchConfig{Filter: "topic:x"})
	assert.Equal(t, 25, f.cfg.PerPage)
	assert.Equal(t, float64(5), f.cfg.RequestsPerSecond)
}
