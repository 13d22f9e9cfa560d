package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veridian-labs/docdex/internal/core/ports/driven"
	"github.com/veridian-labs/docdex/internal/core/ports/driving"
	"github.com/veridian-labs/docdex/internal/core/services"
	"github.com/veridian-labs/docdex/internal/normalisers"
	"github.com/veridian-labs/docdex/internal/normalisers/ocrtext"
	"github.com/veridian-labs/docdex/internal/normalisers/plaintext"
	"github.com/veridian-labs/docdex/internal/ocr/mineru"
	"github.com/veridian-labs/docdex/internal/ocr/paddle"
	"github.com/veridian-labs/docdex/internal/postprocessors"
)

var (
	ingestProvider string
	ingestIndex    string
)

// ingestService can be injected by tests; otherwise it is built from
// the provider and index flags on each run.
var ingestService driving.IngestOrchestrator

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a document or folder into the index",
	Long: `Extracts text from the given file or folder via OCR, cleans and chunks
it, and writes the chunks to the named index.

Pre-extracted markdown and plain-text files are ingested directly without
an OCR round-trip. Scanned documents and PDFs are sent to the provider
selected with --provider.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestProvider, "provider", "mineru", "OCR provider (mineru or paddle)")
	ingestCmd.Flags().StringVar(&ingestIndex, "index", "", "target index name (defaults to the provider name)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	index := ingestIndex
	if index == "" {
		index = ingestProvider
	}

	svc := ingestService
	if svc == nil {
		built, err := buildIngestService(ingestProvider, index)
		if err != nil {
			return err
		}
		svc = built
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading path: %w", err)
	}

	ctx := context.Background()
	var report *driving.IngestReport
	if info.IsDir() {
		report, err = svc.IngestFolder(ctx, path)
	} else {
		report, err = svc.IngestFile(ctx, path)
	}
	if report != nil {
		printIngestReport(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	return nil
}

// buildIngestService assembles the full pipeline for one ingest run.
func buildIngestService(providerName, index string) (driving.IngestOrchestrator, error) {
	if searchStore == nil {
		return nil, errors.New("search store not configured")
	}

	provider, err := buildProvider(providerName)
	if err != nil {
		return nil, err
	}

	registry := normalisers.NewRegistry()
	registry.Register(ocrtext.New())
	registry.Register(plaintext.New())

	procRegistry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(procRegistry)

	chunkerCfg := map[string]any{}
	if configStore != nil {
		if size := configStore.GetInt("chunker.chunk_size"); size > 0 {
			chunkerCfg["chunk_size"] = size
		}
		if overlap := configStore.GetInt("chunker.overlap"); overlap > 0 {
			chunkerCfg["overlap"] = overlap
		}
	}
	chunkerProc, err := procRegistry.Build("chunker", chunkerCfg)
	if err != nil {
		return nil, fmt.Errorf("building chunker: %w", err)
	}
	pipeline := postprocessors.NewPipeline(chunkerProc)

	return services.NewIngestService(provider, registry, pipeline, searchStore, index), nil
}

// buildProvider constructs the OCR provider named by the --provider flag.
// Unknown names or missing credentials are reported before any file is
// touched.
func buildProvider(name string) (driven.OCRProvider, error) {
	switch name {
	case "mineru":
		if configStore == nil {
			return nil, errors.New("config store not configured")
		}
		apiKey := configStore.GetString("mineru.api_key")
		if apiKey == "" {
			return nil, fmt.Errorf("mineru.api_key not set in %s", configStore.Path())
		}
		return mineru.New(mineru.Config{
			APIKey:       apiKey,
			ModelVersion: configStore.GetString("mineru.model_version"),
		}), nil
	case "paddle":
		if configStore == nil {
			return nil, errors.New("config store not configured")
		}
		token := configStore.GetString("paddle.access_token")
		if token == "" {
			return nil, fmt.Errorf("paddle.access_token not set in %s", configStore.Path())
		}
		apiURL := configStore.GetString("paddle.api_url")
		if apiURL == "" {
			return nil, fmt.Errorf("paddle.api_url not set in %s", configStore.Path())
		}
		return paddle.New(paddle.Config{
			AccessToken:         token,
			APIURL:              apiURL,
			UseChartRecognition: configStore.GetBool("paddle.use_chart_recognition"),
			UseDocUnwarping:     configStore.GetBool("paddle.use_doc_unwarping"),
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (use mineru or paddle)", name)
	}
}

func printIngestReport(cmd *cobra.Command, report *driving.IngestReport) {
	cmd.Printf("Files processed: %d\n", report.FilesProcessed)
	if report.FilesFailed > 0 {
		cmd.Printf("Files failed:    %d\n", report.FilesFailed)
	}
	cmd.Printf("Chunks indexed:  %d\n", report.ChunksIndexed)
	if report.ChunksFailed > 0 {
		cmd.Printf("Chunks failed:   %d\n", report.ChunksFailed)
	}
}
