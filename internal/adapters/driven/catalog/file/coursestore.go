// Package file provides a JSON-file backed course catalog.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lena-labs/lena-cli/internal/core/domain"
	"github.com/lena-labs/lena-cli/internal/core/ports/driven"
	"github.com/lena-labs/lena-cli/internal/logger"
)

// Ensure CourseStore implements the interface.
var _ driven.CourseStore = (*CourseStore)(nil)

// CoursesFileName is the catalog file name under the storage directory.
const CoursesFileName = "courses.json"

// defaultCourses seed the catalog when no file exists or the file holds
// nothing usable.
var defaultCourses = []domain.Course{
	{
		ID:   "anth101",
		Name: "ANTH 101 · Cultural Anthropology",
		Code: "ANTH 101",
		Term: "Fall 2024",
	},
	{
		ID:   "anth204",
		Name: "ANTH 204 · Archaeology of Everyday Life",
		Code: "ANTH 204",
		Term: "Fall 2024",
	},
}

// CourseStore reads the course catalog from a JSON file. Each call
// re-reads the file so edits take effect without restarting.
type CourseStore struct {
	path string
}

// NewCourseStore creates a catalog backed by storageDir/courses.json.
func NewCourseStore(storageDir string) *CourseStore {
	return &CourseStore{
		path: filepath.Join(storageDir, CoursesFileName),
	}
}

// Get looks up a course by id.
func (s *CourseStore) Get(_ context.Context, id string) (*domain.Course, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty course id", domain.ErrNotFound)
	}
	for _, course := range s.load() {
		if course.ID == id {
			c := course
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: course %q", domain.ErrNotFound, id)
}

// All returns every configured course in catalog order.
func (s *CourseStore) All(_ context.Context) ([]domain.Course, error) {
	return s.load(), nil
}

// Default returns the first configured course.
func (s *CourseStore) Default(_ context.Context) (*domain.Course, error) {
	courses := s.load()
	if len(courses) == 0 {
		return nil, fmt.Errorf("%w: no courses configured", domain.ErrNotFound)
	}
	c := courses[0]
	return &c, nil
}

// Seed writes the default catalog to disk when no file exists yet.
func (s *CourseStore) Seed() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	data, err := json.MarshalIndent(defaultCourses, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal default courses: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	logger.Info("Seeded course catalog at %s", s.path)
	return nil
}

// load reads and validates the catalog, falling back to the defaults
// when the file is missing, unreadable or holds no usable entries.
func (s *CourseStore) load() []domain.Course {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return defaultCourses
	}

	var raw []domain.Course
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("Malformed course catalog %s: %v", s.path, err)
		return defaultCourses
	}

	sanitized := make([]domain.Course, 0, len(raw))
	for _, course := range raw {
		if course.ID == "" || course.Name == "" {
			continue
		}
		sanitized = append(sanitized, course)
	}
	if len(sanitized) == 0 {
		return defaultCourses
	}
	return sanitized
}
