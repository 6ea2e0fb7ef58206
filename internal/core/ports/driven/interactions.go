package driven

import (
	"context"
	"time"

	"github.com/lena-labs/lena-cli/internal/core/domain"
)

// InteractionStore is a write-only sink for ask events and answer
// records. It is never read by the core; downstream reporting and
// feedback correlation consume it. Sink failures are logged by callers
// and never fail an answering request.
type InteractionStore interface {
	// AppendEvent records one interaction event.
	AppendEvent(ctx context.Context, event InteractionEvent) error

	// RecordAnswer persists the produced answer for later feedback
	// correlation.
	RecordAnswer(ctx context.Context, record AnswerRecord) error

	// Close releases resources.
	Close() error
}

// InteractionEvent is one analytics event.
type InteractionEvent struct {
	// Type labels the event (e.g., "ask").
	Type string

	// QuestionID links the event to an answer record.
	QuestionID string

	// Question is the asked question text.
	Question string

	// Confidence is the answer confidence.
	Confidence float64

	// CourseID is the tenant the question was scoped to.
	CourseID string

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// AnswerRecord is the persisted (question, answer, citations, confidence)
// tuple.
type AnswerRecord struct {
	// QuestionID uniquely identifies the exchange.
	QuestionID string

	// CourseID is the tenant.
	CourseID string

	// Question is the asked question text.
	Question string

	// Answer is the produced answer text.
	Answer string

	// Citations are the answer's deduplicated citations.
	Citations []domain.Citation

	// Confidence is the answer confidence.
	Confidence float64

	// Timestamp is when the answer was produced.
	Timestamp time.Time
}
