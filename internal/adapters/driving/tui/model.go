// Package tui implements the interactive ask session.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lena-labs/lena-cli/internal/core/domain"
	"github.com/lena-labs/lena-cli/internal/core/ports/driving"
)

// askTimeout bounds one answering request. Generation can be slow on
// local models but should never hang the session.
const askTimeout = 2 * time.Minute

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	answerBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionBox   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	citationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// answerMsg carries the result of one answering request.
type answerMsg struct {
	answer *domain.Answer
	err    error
}

// Model is the Bubble Tea model for the ask session.
type Model struct {
	assistant driving.Assistant
	courseID  string

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	status  string
	asking  bool
	ready   bool
	content string
}

// New creates a new ask session model.
func New(assistant driving.Assistant, courseID string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your course and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	scope := "default course"
	if courseID != "" {
		scope = "course " + courseID
	}

	return Model{
		assistant: assistant,
		courseID:  courseID,
		input:     ti,
		viewport:  viewport.New(0, 0),
		spinner:   sp,
		status:    "Scoped to " + scope + ". Type a question to begin.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ah := answerBox.GetFrameSize()
		_, qh := questionBox.GetFrameSize()
		reserved := 2 + qh + 1 // header + status + input frame + spacer
		vh := msg.Height - reserved - ah
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = vh
		m.viewport.SetContent(m.content)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.String() == "esc" {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.asking {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.asking = true
			m.status = "Thinking..."
			m.input.SetValue("")
			return m, tea.Batch(m.spinner.Tick, m.ask(question))
		}

	case answerMsg:
		m.asking = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.content = renderAnswer(msg.answer)
		m.viewport.SetContent(m.content)
		m.viewport.GotoTop()
		m.status = fmt.Sprintf("Confidence %.2f. Ask another question, Esc to quit.", msg.answer.Confidence)
		if msg.answer.EscalationSuggested {
			m.status = fmt.Sprintf("Confidence %.2f. Low confidence: consider contacting the course team.", msg.answer.Confidence)
		}
		return m, nil

	case spinner.TickMsg:
		if m.asking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// ask runs one answering request off the update loop.
func (m Model) ask(question string) tea.Cmd {
	assistant := m.assistant
	courseID := m.courseID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
		defer cancel()
		answer, err := assistant.Ask(ctx, question, courseID)
		return answerMsg{answer: answer, err: err}
	}
}

// View renders the session layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := headerStyle.Render("LENA · Course Assistant")
	body := answerBox.Render(m.viewport.View())
	if m.content == "" {
		body = answerBox.Render(subtleStyle.Render("Answers appear here."))
	}
	input := questionBox.Render(m.input.View())

	status := statusStyle.Render(m.status)
	if m.asking {
		status = m.spinner.View() + " " + statusStyle.Render(m.status)
	} else if strings.Contains(m.status, "Low confidence") || strings.HasPrefix(m.status, "Error") {
		status = warningStyle.Render(m.status)
	}

	return header + "\n" + body + "\n" + input + "\n" + status
}

// renderAnswer formats an answer with its citations for the viewport.
func renderAnswer(answer *domain.Answer) string {
	var b strings.Builder
	b.WriteString(answer.Text)

	if len(answer.Citations) > 0 {
		b.WriteString("\n\n")
		b.WriteString(citationStyle.Render("Sources:"))
		for i, citation := range answer.Citations {
			line := fmt.Sprintf("\n  [%d] %s", i+1, citation.Title)
			if citation.Section != "" {
				line += " · " + citation.Section
			}
			line += " (" + citation.SourcePath + ")"
			b.WriteString(citationStyle.Render(line))
		}
	}
	return b.String()
}

// Run starts the interactive ask session and blocks until it exits.
func Run(assistant driving.Assistant, courseID string) error {
	program := tea.NewProgram(New(assistant, courseID), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ask session: %w", err)
	}
	return nil
}
