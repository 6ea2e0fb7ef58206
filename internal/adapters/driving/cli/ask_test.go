package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lena-labs/lena-cli/internal/core/domain"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_Flags(t *testing.T) {
	assert.NotNil(t, askCmd.Flags().Lookup("course"))
	assert.NotNil(t, askCmd.Flags().Lookup("json"))
}

func TestAskCmd_RejectsExtraArgs(t *testing.T) {
	err := askCmd.Args(askCmd, []string{"one", "two"})
	require.Error(t, err)
}

func newPrintCmd(buf *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	return cmd
}

func TestPrintAnswer_WithCitations(t *testing.T) {
	buf := new(bytes.Buffer)
	printAnswer(newPrintCmd(buf), &domain.Answer{
		Text: "The midterm is in week 7.",
		Citations: []domain.Citation{
			{Title: "Syllabus", Section: "Assessment", SourcePath: "anth101/syllabus.md"},
			{Title: "Week 7", SourcePath: "anth101/week7.md"},
		},
		Confidence: 0.82,
	})

	out := buf.String()
	assert.Contains(t, out, "The midterm is in week 7.")
	assert.Contains(t, out, "[1] Syllabus · Assessment (anth101/syllabus.md)")
	assert.Contains(t, out, "[2] Week 7 (anth101/week7.md)")
	assert.Contains(t, out, "Confidence: 0.82")
	assert.NotContains(t, out, "low-confidence")
}

func TestPrintAnswer_EscalationSuggested(t *testing.T) {
	buf := new(bytes.Buffer)
	printAnswer(newPrintCmd(buf), &domain.Answer{
		Text:                "I couldn't find supporting context for this question.",
		Confidence:          0.10,
		EscalationSuggested: true,
	})

	out := buf.String()
	assert.Contains(t, out, "Confidence: 0.10")
	assert.Contains(t, out, "low-confidence")
	assert.NotContains(t, out, "Sources:")
}
