package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/veridian-labs/docdex/internal/core/ports/driving"
	"github.com/veridian-labs/docdex/internal/logger"
)

var (
	watchProvider string
	watchIndex    string
)

// settleDelay gives the writing process time to finish before the new
// file is ingested. Editors and scanners write in bursts.
const settleDelay = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch [folder]",
	Short: "Watch a folder and ingest new documents",
	Long: `Watches the given folder and runs the ingest pipeline on every new
document as it appears. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchProvider, "provider", "mineru", "OCR provider (mineru or paddle)")
	watchCmd.Flags().StringVar(&watchIndex, "index", "", "target index name (defaults to the provider name)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("reading path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	index := watchIndex
	if index == "" {
		index = watchProvider
	}

	svc := ingestService
	if svc == nil {
		built, err := buildIngestService(watchProvider, index)
		if err != nil {
			return err
		}
		svc = built
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	return watchLoop(ctx, cmd, watcher, svc)
}

// watchLoop ingests files for create events until the context ends.
// A per-file failure is logged and the loop continues.
func watchLoop(ctx context.Context, cmd *cobra.Command, watcher *fsnotify.Watcher, svc driving.IngestOrchestrator) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
				continue
			}

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(settleDelay):
			}

			cmd.Printf("Ingesting %s...\n", event.Name)
			report, err := svc.IngestFile(ctx, event.Name)
			if err != nil {
				logger.Error("ingest %s: %v", event.Name, err)
				continue
			}
			cmd.Printf("Indexed %d chunks from %s\n", report.ChunksIndexed, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: %v", err)
		}
	}
}
