package services

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lena-labs/lena-cli/internal/core/domain"
	"github.com/lena-labs/lena-cli/internal/core/ports/driven"
	"github.com/lena-labs/lena-cli/internal/core/ports/driving"
	"github.com/lena-labs/lena-cli/internal/logger"
)

// Ensure Assistant implements the interface.
var _ driving.Assistant = (*Assistant)(nil)

// Assistant answers learner questions end to end: resolve the course,
// retrieve supporting chunks, compose the answer, score confidence and
// record the interaction.
type Assistant struct {
	courses      driven.CourseStore
	retriever    *Retriever
	composer     *Composer
	interactions driven.InteractionStore
	topK         int
	threshold    float64
}

// NewAssistant creates an assistant. interactions may be nil to disable
// interaction logging.
func NewAssistant(
	courses driven.CourseStore,
	retriever *Retriever,
	composer *Composer,
	interactions driven.InteractionStore,
	topK int,
	threshold float64,
) *Assistant {
	return &Assistant{
		courses:      courses,
		retriever:    retriever,
		composer:     composer,
		interactions: interactions,
		topK:         topK,
		threshold:    threshold,
	}
}

// Ask answers a question scoped to a course. An empty courseID resolves
// to the catalog's default course. Course validation failures are the
// only errors surfaced once the question itself is valid; everything
// downstream degrades to a best-effort answer.
func (a *Assistant) Ask(ctx context.Context, question, courseID string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	course, err := a.resolveCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	chunks, err := a.retriever.Retrieve(ctx, question, course.ID, a.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	text := a.composer.Compose(ctx, question, chunks)
	citations := domain.BuildCitations(chunks)
	confidence := Confidence(chunks, a.topK)

	answer := &domain.Answer{
		QuestionID:          newQuestionID(),
		Text:                text,
		Citations:           citations,
		Confidence:          confidence,
		EscalationSuggested: confidence < a.threshold,
	}

	a.record(ctx, question, course.ID, answer)
	return answer, nil
}

// resolveCourse validates the requested course against the catalog,
// falling back to the default course when no id is given.
func (a *Assistant) resolveCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	if courseID == "" {
		course, err := a.courses.Default(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: no default course configured", domain.ErrCourseUnknown)
		}
		return course, nil
	}

	if !domain.ValidCourseID(courseID) {
		return nil, fmt.Errorf("%w: %q", domain.ErrCourseInvalid, courseID)
	}

	course, err := a.courses.Get(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrCourseUnknown, courseID)
	}
	return course, nil
}

// record appends the interaction event and answer record. Failures are
// logged and never fail the request.
func (a *Assistant) record(ctx context.Context, question, courseID string, answer *domain.Answer) {
	if a.interactions == nil {
		return
	}

	now := time.Now().UTC()
	if err := a.interactions.AppendEvent(ctx, driven.InteractionEvent{
		Type:       "ask",
		QuestionID: answer.QuestionID,
		Question:   question,
		Confidence: answer.Confidence,
		CourseID:   courseID,
		Timestamp:  now,
	}); err != nil {
		logger.Warn("Failed to log interaction event: %v", err)
	}

	if err := a.interactions.RecordAnswer(ctx, driven.AnswerRecord{
		QuestionID: answer.QuestionID,
		CourseID:   courseID,
		Question:   question,
		Answer:     answer.Text,
		Citations:  answer.Citations,
		Confidence: answer.Confidence,
		Timestamp:  now,
	}); err != nil {
		logger.Warn("Failed to record answer: %v", err)
	}
}

// newQuestionID returns a 32-character hex identifier.
func newQuestionID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
