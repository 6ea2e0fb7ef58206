package domain

import "regexp"

// Course is a tenant in the corpus: an isolation boundary over
// documents and retrieval results.
type Course struct {
	// ID is the course identifier used in chunk metadata and filters.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Code is the institutional course code, when known.
	Code string `json:"code,omitempty"`

	// Term is the teaching term, when known.
	Term string `json:"term,omitempty"`
}

// courseIDPattern restricts course ids to a single safe path segment.
// Anything else could influence filesystem traversal in the retriever's
// fallback path and is rejected up front.
var courseIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// ValidCourseID reports whether id is a well-formed course identifier.
// Valid ids never contain path separators or dot segments, so they can
// be safely joined under a corpus root.
func ValidCourseID(id string) bool {
	return courseIDPattern.MatchString(id)
}
