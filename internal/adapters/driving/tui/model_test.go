package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lena-labs/lena-cli/internal/core/domain"
)

type stubAssistant struct {
	answer    *domain.Answer
	err       error
	questions []string
	courseIDs []string
}

func (s *stubAssistant) Ask(_ context.Context, question, courseID string) (*domain.Answer, error) {
	s.questions = append(s.questions, question)
	s.courseIDs = append(s.courseIDs, courseID)
	if s.err != nil {
		return nil, s.err
	}
	return s.answer, nil
}

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func TestEnterAsksTrimmedQuestion(t *testing.T) {
	stub := &stubAssistant{answer: &domain.Answer{Text: "ok"}}
	m := sized(New(stub, "anth101"))
	m.input.SetValue("  When is the exam?  ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.asking)
	assert.Empty(t, m.input.Value())

	msg := m.ask("When is the exam?")()
	answer, ok := msg.(answerMsg)
	require.True(t, ok)
	require.NoError(t, answer.err)
	assert.Equal(t, []string{"When is the exam?"}, stub.questions)
	assert.Equal(t, []string{"anth101"}, stub.courseIDs)
}

func TestEnterIgnoresEmptyQuestion(t *testing.T) {
	stub := &stubAssistant{answer: &domain.Answer{Text: "ok"}}
	m := sized(New(stub, ""))
	m.input.SetValue("   ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.asking)
	assert.Empty(t, stub.questions)
}

func TestAnswerRenderedWithCitations(t *testing.T) {
	m := sized(New(&stubAssistant{}, ""))
	m.asking = true

	updated, _ := m.Update(answerMsg{answer: &domain.Answer{
		Text: "The exam is on Friday.",
		Citations: []domain.Citation{
			{Title: "Syllabus", Section: "Exams", SourcePath: "anth101/syllabus.md"},
		},
		Confidence: 0.91,
	}})
	m = updated.(Model)

	assert.False(t, m.asking)
	view := m.View()
	assert.Contains(t, view, "The exam is on Friday.")
	assert.Contains(t, view, "[1] Syllabus")
	assert.Contains(t, view, "anth101/syllabus.md")
	assert.Contains(t, m.status, "0.91")
	assert.NotContains(t, m.status, "Low confidence")
}

func TestLowConfidenceAnswerWarnsInStatus(t *testing.T) {
	m := sized(New(&stubAssistant{}, ""))

	updated, _ := m.Update(answerMsg{answer: &domain.Answer{
		Text:                "I couldn't find supporting context.",
		Confidence:          0.12,
		EscalationSuggested: true,
	}})
	m = updated.(Model)

	assert.Contains(t, m.status, "Low confidence")
}

func TestAnswerErrorShownInStatus(t *testing.T) {
	m := sized(New(&stubAssistant{}, ""))
	m.asking = true

	updated, _ := m.Update(answerMsg{err: errors.New("embedding service unavailable")})
	m = updated.(Model)

	assert.False(t, m.asking)
	assert.True(t, strings.HasPrefix(m.status, "Error:"))
	assert.Contains(t, m.status, "embedding service unavailable")
}

func TestCtrlCQuits(t *testing.T) {
	m := sized(New(&stubAssistant{}, ""))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewBeforeFirstResize(t *testing.T) {
	m := New(&stubAssistant{}, "")
	assert.Equal(t, "Loading...", m.View())
}

func TestRenderAnswerWithoutCitations(t *testing.T) {
	out := renderAnswer(&domain.Answer{Text: "No sources here."})
	assert.Equal(t, "No sources here.", out)
}
