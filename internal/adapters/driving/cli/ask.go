package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lena-labs/lena-cli/internal/adapters/driving/tui"
	"github.com/lena-labs/lena-cli/internal/core/domain"
)

var (
	askCourseID string
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the course materials",
	Long: `Answers a question using retrieval-augmented generation over the
ingested course materials. Answers cite their sources and carry a
confidence score; low-confidence answers suggest escalation to the
course team.

With no question argument an interactive session starts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askCourseID, "course", "c", "", "course id to scope the question to")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	assistant, err := app.newAssistant()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return tui.Run(assistant, askCourseID)
	}

	answer, err := assistant.Ask(cmd.Context(), args[0], askCourseID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCourseInvalid), errors.Is(err, domain.ErrCourseUnknown):
			return fmt.Errorf("invalid course: %w", err)
		case errors.Is(err, domain.ErrInvalidInput):
			return fmt.Errorf("invalid question: %w", err)
		default:
			return fmt.Errorf("ask failed: %w", err)
		}
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printAnswer(cmd, answer)
	return nil
}

func printAnswer(cmd *cobra.Command, answer *domain.Answer) {
	cmd.Println(answer.Text)
	cmd.Println()

	if len(answer.Citations) > 0 {
		cmd.Println("Sources:")
		for i, citation := range answer.Citations {
			line := fmt.Sprintf("  [%d] %s", i+1, citation.Title)
			if citation.Section != "" {
				line += " · " + citation.Section
			}
			line += " (" + citation.SourcePath + ")"
			cmd.Println(line)
		}
		cmd.Println()
	}

	cmd.Printf("Confidence: %.2f\n", answer.Confidence)
	if answer.EscalationSuggested {
		cmd.Println("This answer is low-confidence. Consider asking the course team directly.")
	}
}
