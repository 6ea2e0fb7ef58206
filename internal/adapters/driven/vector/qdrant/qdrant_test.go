package qdrant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lena-labs/lena-cli/internal/core/domain"
	"github.com/lena-labs/lena-cli/internal/core/ports/driven"
)

// fakeQdrant is a minimal in-memory stand-in for the REST API surface
// the adapter uses.
type fakeQdrant struct {
	collections map[string]int
	points      map[string][]map[string]any
	searchHits  []map[string]any
	requests    []string
}

func newFakeQdrant() *fakeQdrant {
	return &fakeQdrant{
		collections: make(map[string]int),
		points:      make(map[string][]map[string]any),
	}
}

func (f *fakeQdrant) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /collections/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.requests = append(f.requests, "GET "+r.URL.Path)
		name := r.PathValue("name")
		dim, ok := f.collections[name]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"result":{"config":{"params":{"vectors":{"size":%d}}}}}`, dim)
	})

	mux.HandleFunc("PUT /collections/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.requests = append(f.requests, "PUT "+r.URL.Path)
		var body struct {
			Vectors struct {
				Size int `json:"size"`
			} `json:"vectors"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.collections[r.PathValue("name")] = body.Vectors.Size
		fmt.Fprint(w, `{"result":true}`)
	})

	mux.HandleFunc("DELETE /collections/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.requests = append(f.requests, "DELETE "+r.URL.Path)
		name := r.PathValue("name")
		delete(f.collections, name)
		delete(f.points, name)
		fmt.Fprint(w, `{"result":true}`)
	})

	mux.HandleFunc("PUT /collections/{name}/points", func(w http.ResponseWriter, r *http.Request) {
		f.requests = append(f.requests, "PUT "+r.URL.Path)
		name := r.PathValue("name")
		if _, ok := f.collections[name]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var body struct {
			Points []map[string]any `json:"points"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.points[name] = append(f.points[name], body.Points...)
		fmt.Fprint(w, `{"result":{"status":"acknowledged"}}`)
	})

	mux.HandleFunc("POST /collections/{name}/points/search", func(w http.ResponseWriter, r *http.Request) {
		f.requests = append(f.requests, "POST "+r.URL.Path)
		name := r.PathValue("name")
		if _, ok := f.collections[name]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		resp := map[string]any{"result": f.searchHits}
		_ = json.NewEncoder(w).Encode(resp)
	})

	mux.HandleFunc("POST /collections/{name}/points/delete", func(w http.ResponseWriter, r *http.Request) {
		f.requests = append(f.requests, "POST "+r.URL.Path)
		name := r.PathValue("name")
		if _, ok := f.collections[name]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"result":{"status":"acknowledged"}}`)
	})

	return mux
}

func newTestIndex(t *testing.T, fake *fakeQdrant) *Index {
	t.Helper()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	return New(Config{BaseURL: server.URL})
}

func TestEnsureCollectionCreates(t *testing.T) {
	fake := newFakeQdrant()
	index := newTestIndex(t, fake)

	require.NoError(t, index.EnsureCollection(context.Background(), "col", 768))
	assert.Equal(t, 768, fake.collections["col"])
}

func TestEnsureCollectionKeepsMatchingDim(t *testing.T) {
	fake := newFakeQdrant()
	fake.collections["col"] = 768
	index := newTestIndex(t, fake)

	require.NoError(t, index.EnsureCollection(context.Background(), "col", 768))
	// No create or delete issued.
	assert.Equal(t, []string{"GET /collections/col"}, fake.requests)
}

func TestEnsureCollectionRecreatesOnDimMismatch(t *testing.T) {
	fake := newFakeQdrant()
	fake.collections["col"] = 384
	index := newTestIndex(t, fake)

	require.NoError(t, index.EnsureCollection(context.Background(), "col", 768))
	assert.Equal(t, 768, fake.collections["col"])
	assert.Contains(t, fake.requests, "DELETE /collections/col")
}

func TestUpsertAndSearch(t *testing.T) {
	fake := newFakeQdrant()
	fake.collections["col"] = 3
	index := newTestIndex(t, fake)

	crawlTS := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := index.Upsert(context.Background(), "col", []driven.Point{{
		ID:     "11111111-1111-1111-1111-111111111111",
		Vector: []float32{1, 2, 3},
		Text:   "late policy text",
		Metadata: domain.ChunkMetadata{
			DocID:      "doc1",
			VersionID:  "100",
			Collection: "policy",
			Title:      "Policies",
			Section:    "Late Policy",
			SourcePath: "c1/policy.md",
			CourseID:   "c1",
			CrawlTS:    crawlTS,
		},
	}})
	require.NoError(t, err)

	require.Len(t, fake.points["col"], 1)
	payload := fake.points["col"][0]["payload"].(map[string]any)
	assert.Equal(t, "c1", payload["course_id"])
	assert.Equal(t, "late policy text", payload["text"])
	assert.Equal(t, "2026-03-01T12:00:00Z", payload["crawl_ts"])

	fake.searchHits = []map[string]any{{
		"id":      "11111111-1111-1111-1111-111111111111",
		"score":   0.87,
		"payload": payload,
	}}

	hits, err := index.Search(context.Background(), "col", []float32{1, 2, 3}, 5, &driven.Filter{CourseID: "c1"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 0.87, hits[0].Score)
	assert.Equal(t, "late policy text", hits[0].Text)
	assert.Equal(t, "c1", hits[0].Metadata.CourseID)
	assert.Equal(t, "Late Policy", hits[0].Metadata.Section)
	assert.Equal(t, crawlTS, hits[0].Metadata.CrawlTS)
}

func TestSearchRecreatesMissingCollection(t *testing.T) {
	fake := newFakeQdrant()
	index := newTestIndex(t, fake)

	hits, err := index.Search(context.Background(), "col", []float32{1, 2, 3}, 5, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
	// The collection was recreated with the query vector's dimension.
	assert.Equal(t, 3, fake.collections["col"])
}

func TestDeleteMissingCollectionIsNoop(t *testing.T) {
	fake := newFakeQdrant()
	index := newTestIndex(t, fake)

	err := index.Delete(context.Background(), "col", &driven.Filter{DocID: "doc1"})
	assert.NoError(t, err)
}

func TestDeleteRequiresFilter(t *testing.T) {
	fake := newFakeQdrant()
	fake.collections["col"] = 3
	index := newTestIndex(t, fake)

	assert.Error(t, index.Delete(context.Background(), "col", nil))
	assert.Error(t, index.Delete(context.Background(), "col", &driven.Filter{}))
}

func TestEncodeFilter(t *testing.T) {
	f := encodeFilter(&driven.Filter{CourseID: "c1", DocID: "doc1"})
	must := f["must"].([]map[string]any)
	require.Len(t, must, 2)
	assert.Equal(t, "course_id", must[0]["key"])
	assert.Equal(t, "doc_id", must[1]["key"])

	assert.Nil(t, encodeFilter(nil))
	assert.Nil(t, encodeFilter(&driven.Filter{}))
}

func TestSearchUnavailableServer(t *testing.T) {
	index := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})

	_, err := index.Search(context.Background(), "col", []float32{1}, 5, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}
