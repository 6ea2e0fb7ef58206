// Package qdrant provides a vector index adapter over the Qdrant REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lena-labs/lena-cli/internal/core/domain"
	"github.com/lena-labs/lena-cli/internal/core/ports/driven"
	"github.com/lena-labs/lena-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:6333"
	DefaultTimeout = 30 * time.Second
)

// Payload keys stored with each point.
const (
	payloadText       = "text"
	payloadDocID      = "doc_id"
	payloadVersionID  = "version_id"
	payloadCollection = "collection"
	payloadTitle      = "title"
	payloadSection    = "section"
	payloadSourcePath = "source_path"
	payloadCourseID   = "course_id"
	payloadCrawlTS    = "crawl_ts"
)

// Config holds configuration for the Qdrant index.
type Config struct {
	// BaseURL is the Qdrant REST base URL (default: http://localhost:6333).
	BaseURL string

	// APIKey authenticates requests when the server requires it.
	APIKey string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Index talks to Qdrant over its REST API.
type Index struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// New creates a new Qdrant index adapter.
func New(cfg Config) *Index {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Index{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

// collectionInfo is the subset of GET /collections/{name} we read.
type collectionInfo struct {
	Result struct {
		Config struct {
			Params struct {
				Vectors struct {
					Size int `json:"size"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// EnsureCollection creates the collection if absent, or drops and
// recreates it when the stored dimensionality differs from dim. A model
// swap invalidates the whole index: mixed-dimension vectors are not
// comparable.
func (q *Index) EnsureCollection(ctx context.Context, name string, dim int) error {
	status, body, err := q.do(ctx, http.MethodGet, "/collections/"+name, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
	}

	switch status {
	case http.StatusOK:
		var info collectionInfo
		if err := json.Unmarshal(body, &info); err != nil {
			return fmt.Errorf("decode collection info: %w", err)
		}
		if info.Result.Config.Params.Vectors.Size == dim {
			return nil
		}
		logger.Warn("Collection %s has dimension %d, expected %d; recreating",
			name, info.Result.Config.Params.Vectors.Size, dim)
		if status, _, err := q.do(ctx, http.MethodDelete, "/collections/"+name, nil); err != nil || status != http.StatusOK {
			return fmt.Errorf("drop collection %s (status %d): %v", name, status, err)
		}
	case http.StatusNotFound:
		// fall through to create
	default:
		return fmt.Errorf("get collection %s: status %d: %s", name, status, body)
	}

	return q.createCollection(ctx, name, dim)
}

func (q *Index) createCollection(ctx context.Context, name string, dim int) error {
	payload := map[string]any{
		"vectors": map[string]any{
			"size":     dim,
			"distance": "Cosine",
		},
	}
	status, body, err := q.do(ctx, http.MethodPut, "/collections/"+name, payload)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("create collection %s: status %d: %s", name, status, body)
	}
	logger.Debug("Created collection %s (dim %d)", name, dim)
	return nil
}

// Upsert writes points into the collection.
func (q *Index) Upsert(ctx context.Context, name string, points []driven.Point) error {
	if len(points) == 0 {
		return nil
	}

	body := map[string]any{"points": make([]map[string]any, 0, len(points))}
	raw := body["points"].([]map[string]any)
	for _, point := range points {
		raw = append(raw, map[string]any{
			"id":      point.ID,
			"vector":  point.Vector,
			"payload": encodePayload(point.Text, point.Metadata),
		})
	}
	body["points"] = raw

	status, respBody, err := q.do(ctx, http.MethodPut, "/collections/"+name+"/points?wait=true", body)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("upsert points: status %d: %s", status, respBody)
	}
	return nil
}

// searchResponse is the subset of the search response we read.
type searchResponse struct {
	Result []struct {
		ID      any            `json:"id"`
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Search returns up to limit hits ordered by descending similarity.
// A missing collection is treated as recoverable: it is recreated empty
// and the search retried once, returning no hits rather than an error.
func (q *Index) Search(ctx context.Context, name string, vector []float32, limit int, filter *driven.Filter) ([]driven.Hit, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	if f := encodeFilter(filter); f != nil {
		body["filter"] = f
	}

	status, respBody, err := q.do(ctx, http.MethodPost, "/collections/"+name+"/points/search", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
	}
	if status == http.StatusNotFound {
		logger.Warn("Collection %s missing during search; recreating", name)
		if err := q.createCollection(ctx, name, len(vector)); err != nil {
			return nil, err
		}
		status, respBody, err = q.do(ctx, http.MethodPost, "/collections/"+name+"/points/search", body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
		}
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("search points: status %d: %s", status, respBody)
	}

	var searchResp searchResponse
	if err := json.Unmarshal(respBody, &searchResp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]driven.Hit, 0, len(searchResp.Result))
	for _, result := range searchResp.Result {
		text, metadata := decodePayload(result.Payload)
		hits = append(hits, driven.Hit{
			ID:       fmt.Sprintf("%v", result.ID),
			Score:    result.Score,
			Text:     text,
			Metadata: metadata,
		})
	}
	return hits, nil
}

// Delete removes all points matching the filter. A missing collection
// is a no-op: there is nothing to delete.
func (q *Index) Delete(ctx context.Context, name string, filter *driven.Filter) error {
	f := encodeFilter(filter)
	if f == nil {
		return fmt.Errorf("delete requires a non-empty filter")
	}

	body := map[string]any{"filter": f}
	status, respBody, err := q.do(ctx, http.MethodPost, "/collections/"+name+"/points/delete?wait=true", body)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
	}
	if status == http.StatusNotFound {
		return nil
	}
	if status != http.StatusOK {
		return fmt.Errorf("delete points: status %d: %s", status, respBody)
	}
	return nil
}

// Close releases resources.
func (q *Index) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// do sends one JSON request and returns the status code and body.
func (q *Index) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, q.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// encodeFilter converts a typed filter to Qdrant's must-match form.
func encodeFilter(filter *driven.Filter) map[string]any {
	if filter.IsZero() {
		return nil
	}

	var must []map[string]any
	if filter.CourseID != "" {
		must = append(must, map[string]any{
			"key":   payloadCourseID,
			"match": map[string]any{"value": filter.CourseID},
		})
	}
	if filter.DocID != "" {
		must = append(must, map[string]any{
			"key":   payloadDocID,
			"match": map[string]any{"value": filter.DocID},
		})
	}
	return map[string]any{"must": must}
}

// encodePayload flattens chunk text and metadata into the point payload.
func encodePayload(text string, m domain.ChunkMetadata) map[string]any {
	return map[string]any{
		payloadText:       text,
		payloadDocID:      m.DocID,
		payloadVersionID:  m.VersionID,
		payloadCollection: m.Collection,
		payloadTitle:      m.Title,
		payloadSection:    m.Section,
		payloadSourcePath: m.SourcePath,
		payloadCourseID:   m.CourseID,
		payloadCrawlTS:    m.CrawlTS.Format(time.RFC3339),
	}
}

// decodePayload converts a loosely-typed payload back to chunk text and
// metadata. Missing or mistyped keys decode as zero values; validation
// of payload shape happens only at this boundary.
func decodePayload(payload map[string]any) (string, domain.ChunkMetadata) {
	metadata := domain.ChunkMetadata{
		DocID:      payloadString(payload, payloadDocID),
		VersionID:  payloadString(payload, payloadVersionID),
		Collection: payloadString(payload, payloadCollection),
		Title:      payloadString(payload, payloadTitle),
		Section:    payloadString(payload, payloadSection),
		SourcePath: payloadString(payload, payloadSourcePath),
		CourseID:   payloadString(payload, payloadCourseID),
	}
	if raw := payloadString(payload, payloadCrawlTS); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			metadata.CrawlTS = ts
		}
	}
	return payloadString(payload, payloadText), metadata
}

func payloadString(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
