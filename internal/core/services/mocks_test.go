package services

import (
	"context"
	"errors"
	"strings"

	"github.com/lena-labs/lena-cli/internal/core/domain"
	"github.com/lena-labs/lena-cli/internal/core/ports/driven"
)

// mockEmbedding returns fixed-size vectors derived from text length so
// tests can distinguish inputs without a real model.
type mockEmbedding struct {
	dims      int
	embedErr  error
	batchErr  error
	calls     []string
	batchSize []int
}

var _ driven.EmbeddingService = (*mockEmbedding)(nil)

func newMockEmbedding(dims int) *mockEmbedding {
	return &mockEmbedding{dims: dims}
}

func (m *mockEmbedding) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.calls = append(m.calls, text)
	return m.vector(text), nil
}

func (m *mockEmbedding) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	m.batchSize = append(m.batchSize, len(texts))
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = m.vector(text)
	}
	return vectors, nil
}

func (m *mockEmbedding) vector(text string) []float32 {
	v := make([]float32, m.dims)
	for i := range v {
		v[i] = float32(len(text)%7) + float32(i)
	}
	return v
}

func (m *mockEmbedding) Dimensions() int            { return m.dims }
func (m *mockEmbedding) ModelName() string          { return "mock-embed" }
func (m *mockEmbedding) Ping(context.Context) error { return nil }
func (m *mockEmbedding) Close() error               { return nil }

// mockIndex is an in-memory vector index recording every mutation.
type mockIndex struct {
	ensured    map[string]int
	points     map[string][]driven.Point
	searchHits []driven.Hit
	searchErr  error
	deleteErr  error
	upsertErr  error
	deletes    []driven.Filter
	searches   []driven.Filter
}

var _ driven.VectorIndex = (*mockIndex)(nil)

func newMockIndex() *mockIndex {
	return &mockIndex{
		ensured: make(map[string]int),
		points:  make(map[string][]driven.Point),
	}
}

func (m *mockIndex) EnsureCollection(_ context.Context, name string, dim int) error {
	m.ensured[name] = dim
	return nil
}

func (m *mockIndex) Upsert(_ context.Context, name string, points []driven.Point) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	existing := m.points[name]
	for _, point := range points {
		replaced := false
		for i, prev := range existing {
			if prev.ID == point.ID {
				existing[i] = point
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, point)
		}
	}
	m.points[name] = existing
	return nil
}

func (m *mockIndex) Search(_ context.Context, _ string, _ []float32, limit int, filter *driven.Filter) ([]driven.Hit, error) {
	if filter != nil {
		m.searches = append(m.searches, *filter)
	}
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	hits := m.searchHits
	if filter != nil && filter.CourseID != "" {
		filtered := hits[:0:0]
		for _, hit := range hits {
			if hit.Metadata.CourseID == filter.CourseID {
				filtered = append(filtered, hit)
			}
		}
		hits = filtered
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (m *mockIndex) Delete(_ context.Context, name string, filter *driven.Filter) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if filter != nil {
		m.deletes = append(m.deletes, *filter)
		if filter.DocID != "" {
			kept := m.points[name][:0:0]
			for _, point := range m.points[name] {
				if point.Metadata.DocID != filter.DocID {
					kept = append(kept, point)
				}
			}
			m.points[name] = kept
		}
	}
	return nil
}

func (m *mockIndex) Close() error { return nil }

// mockGeneration replays a canned response.
type mockGeneration struct {
	response string
	err      error
	prompts  []string
}

var _ driven.GenerationService = (*mockGeneration)(nil)

func (m *mockGeneration) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockGeneration) ModelName() string          { return "mock-gen" }
func (m *mockGeneration) Ping(context.Context) error { return nil }
func (m *mockGeneration) Close() error               { return nil }

// mockCourses is a fixed in-memory catalog.
type mockCourses struct {
	courses   map[string]*domain.Course
	defaultID string
}

var _ driven.CourseStore = (*mockCourses)(nil)

func newMockCourses(ids ...string) *mockCourses {
	m := &mockCourses{courses: make(map[string]*domain.Course)}
	for i, id := range ids {
		m.courses[id] = &domain.Course{ID: id, Name: strings.ToUpper(id)}
		if i == 0 {
			m.defaultID = id
		}
	}
	return m
}

func (m *mockCourses) Get(_ context.Context, id string) (*domain.Course, error) {
	if course, ok := m.courses[id]; ok {
		return course, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockCourses) Default(_ context.Context) (*domain.Course, error) {
	if m.defaultID == "" {
		return nil, domain.ErrNotFound
	}
	return m.courses[m.defaultID], nil
}

// mockInteractions captures writes for assertions.
type mockInteractions struct {
	events    []driven.InteractionEvent
	answers   []driven.AnswerRecord
	appendErr error
}

var _ driven.InteractionStore = (*mockInteractions)(nil)

func (m *mockInteractions) AppendEvent(_ context.Context, event driven.InteractionEvent) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockInteractions) RecordAnswer(_ context.Context, record driven.AnswerRecord) error {
	m.answers = append(m.answers, record)
	return nil
}

func (m *mockInteractions) Close() error { return nil }

var errMockUnavailable = errors.New("mock service unavailable")
