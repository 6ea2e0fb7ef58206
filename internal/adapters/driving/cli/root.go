// Package cli implements the lena command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lena-labs/lena-cli/internal/adapters/driven/ai"
	catalogfile "github.com/lena-labs/lena-cli/internal/adapters/driven/catalog/file"
	configfile "github.com/lena-labs/lena-cli/internal/adapters/driven/config/file"
	"github.com/lena-labs/lena-cli/internal/adapters/driven/storage/sqlite"
	"github.com/lena-labs/lena-cli/internal/adapters/driven/vector/qdrant"
	"github.com/lena-labs/lena-cli/internal/chunker"
	"github.com/lena-labs/lena-cli/internal/core/domain"
	"github.com/lena-labs/lena-cli/internal/core/ports/driven"
	"github.com/lena-labs/lena-cli/internal/core/services"
	"github.com/lena-labs/lena-cli/internal/logger"
	"github.com/lena-labs/lena-cli/internal/parsers"
	"github.com/lena-labs/lena-cli/internal/parsers/ics"
	"github.com/lena-labs/lena-cli/internal/parsers/markdown"
	"github.com/lena-labs/lena-cli/internal/parsers/plaintext"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "lena",
	Short: "Course assistant over your own course materials",
	Long: `lena ingests course materials (markdown, calendars, plain text) into a
vector index and answers learner questions with grounded, citation-backed
responses.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.lena)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// app bundles the wired services a command needs.
type app struct {
	settings  domain.AppSettings
	embedding driven.EmbeddingService
	index     driven.VectorIndex
	courses   driven.CourseStore
	store     *sqlite.Store
	registry  *parsers.Registry
}

// Close releases the app's resources.
func (a *app) Close() {
	if a.embedding != nil {
		_ = a.embedding.Close()
	}
	if a.index != nil {
		_ = a.index.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

// newApp loads settings and wires the driven adapters shared by the
// ingest and ask commands.
func newApp() (*app, error) {
	configStore, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settings, err := configStore.Load()
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configStore.Path(), err)
	}

	embedding, err := ai.CreateEmbeddingService(settings.Embedding)
	if err != nil {
		return nil, err
	}

	courses := catalogfile.NewCourseStore(settings.StorageDir)
	if err := courses.Seed(); err != nil {
		logger.Warn("Could not seed course catalog: %v", err)
	}

	store, err := sqlite.NewStore(settings.StorageDir)
	if err != nil {
		embedding.Close()
		return nil, fmt.Errorf("open interaction store: %w", err)
	}

	registry := parsers.NewRegistry()
	registry.Register(markdown.New())
	registry.Register(ics.New())
	registry.Register(plaintext.New())

	return &app{
		settings:  settings,
		embedding: embedding,
		index:     qdrant.New(qdrant.Config{BaseURL: settings.QdrantURL}),
		courses:   courses,
		store:     store,
		registry:  registry,
	}, nil
}

// newIngestor builds the ingestion service from the app's adapters.
func (a *app) newIngestor() *services.Ingestor {
	chk := chunker.New(
		chunker.WithMaxTokens(a.settings.Retrieval.MaxTokens),
		chunker.WithOverlap(a.settings.Retrieval.Overlap),
	)
	return services.NewIngestor(
		a.embedding,
		a.index,
		a.registry,
		chk,
		a.settings.Collection,
		a.settings.DefaultCourseID,
	)
}

// newAssistant builds the answering service from the app's adapters.
func (a *app) newAssistant() (*services.Assistant, error) {
	generation, err := ai.CreateGenerationService(a.settings.Generation)
	if err != nil {
		return nil, err
	}

	retriever := services.NewRetriever(
		a.embedding,
		a.index,
		a.settings.Collection,
		a.settings.DataDir,
	)
	composer := services.NewComposer(
		generation,
		a.settings.Generation.Mode,
		a.settings.Generation.MaxNewTokens,
	)
	return services.NewAssistant(
		a.courses,
		retriever,
		composer,
		a.store,
		a.settings.Retrieval.TopK,
		a.settings.Retrieval.EscalationThreshold,
	), nil
}
