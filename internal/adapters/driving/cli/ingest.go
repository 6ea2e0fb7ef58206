package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lena-labs/lena-cli/internal/logger"
	"github.com/lena-labs/lena-cli/internal/watcher"
)

var (
	ingestWatch    bool
	ingestDebounce time.Duration
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [root...]",
	Short: "Ingest course materials into the vector index",
	Long: `Walks each corpus root, parses supported files (markdown, iCalendar,
plain text) into sections, chunks them and writes embeddings to the
vector index. With no arguments the configured data directory is used.

Re-ingestion is idempotent: unchanged content reproduces the same chunk
ids, and each document's previous chunks are replaced atomically.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "watch roots and re-ingest on change")
	ingestCmd.Flags().DurationVar(&ingestDebounce, "debounce", watcher.DefaultDebounce, "settle time before re-ingesting in watch mode")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	roots := args
	if len(roots) == 0 {
		roots = []string{app.settings.DataDir}
	}

	ingestor := app.newIngestor()
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := ingestor.Ingest(ctx, roots)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	cmd.Printf("Ingested %d documents (%d chunks) into %s\n",
		stats.DocsProcessed, stats.ChunksWritten, app.settings.Collection)

	if !ingestWatch {
		return nil
	}

	cmd.Printf("Watching %v for changes (Ctrl+C to stop)\n", roots)
	w := watcher.New(roots, ingestDebounce, func(ctx context.Context) error {
		stats, err := ingestor.Ingest(ctx, roots)
		if err != nil {
			return err
		}
		logger.Info("Re-ingested %d documents (%d chunks)", stats.DocsProcessed, stats.ChunksWritten)
		return nil
	})
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
