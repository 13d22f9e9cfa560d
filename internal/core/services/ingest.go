package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/veridian-labs/docdex/internal/core/domain"
	"github.com/veridian-labs/docdex/internal/core/ports/driven"
	"github.com/veridian-labs/docdex/internal/core/ports/driving"
	"github.com/veridian-labs/docdex/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestOrchestrator = (*IngestService)(nil)

// directMIMETypes maps extensions of pre-extracted text files that skip the
// OCR step entirely.
var directMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
}

// ocrExtensions lists file types routed through the OCR provider.
var ocrExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tiff": true,
}

// IngestService sequences OCR acquisition, cleaning, chunking and indexing.
// Each document is processed end-to-end before the next; there is no shared
// mutable state between documents.
type IngestService struct {
	provider driven.OCRProvider
	registry driven.NormaliserRegistry
	pipeline driven.PostProcessorPipeline
	store    driven.SearchStore
	index    string
}

// NewIngestService creates an ingest orchestrator writing to the named
// index. All collaborators are passed explicitly at construction.
func NewIngestService(
	provider driven.OCRProvider,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	store driven.SearchStore,
	index string,
) *IngestService {
	return &IngestService{
		provider: provider,
		registry: registry,
		pipeline: pipeline,
		store:    store,
		index:    index,
	}
}

// IngestFile runs the full pipeline for a single document.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*driving.IngestReport, error) {
	report := &driving.IngestReport{}

	if err := s.ingestOne(ctx, path, report); err != nil {
		report.FilesFailed++
		return report, err
	}

	report.FilesProcessed++
	return report, nil
}

// IngestFolder processes every supported document in a folder, one at a
// time. A failure in one document is logged and does not abort the others.
func (s *IngestService) IngestFolder(ctx context.Context, dir string) (*driving.IngestReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", dir, err)
	}

	report := &driving.IngestReport{}

	for _, entry := range entries {
		if entry.IsDir() || !s.supported(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := s.ingestOne(ctx, path, report); err != nil {
			logger.Error("Ingest failed for %s: %v", entry.Name(), err)
			report.FilesFailed++
			continue
		}
		report.FilesProcessed++
	}

	if report.FilesProcessed == 0 && report.FilesFailed == 0 {
		logger.Warn("No supported documents found in %s", dir)
	}

	return report, nil
}

// ingestOne runs acquire → normalise → chunk → index for one document and
// accumulates chunk counts into the report.
func (s *IngestService) ingestOne(ctx context.Context, path string, report *driving.IngestReport) error {
	fileName := filepath.Base(path)
	logger.Section("Ingest " + fileName)

	raw, err := s.acquire(ctx, path)
	if err != nil {
		return fmt.Errorf("%s: extract: %w", fileName, err)
	}
	logger.Debug("Extracted %d bytes from %s", len(raw.Content), fileName)

	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return fmt.Errorf("%s: normalise: %w", fileName, err)
	}

	doc := result.Document
	if strings.TrimSpace(doc.Content) == "" {
		return fmt.Errorf("%s: %w", fileName, domain.ErrEmptyExtraction)
	}

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return fmt.Errorf("%s: chunk: %w", fileName, err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%s: %w", fileName, domain.ErrEmptyExtraction)
	}
	logger.Debug("Produced %d chunks", len(chunks))

	if err := s.store.EnsureIndex(ctx, s.index); err != nil {
		return fmt.Errorf("%s: ensure index: %w", fileName, err)
	}

	stats, err := s.store.IndexChunks(ctx, s.index, doc.SourceFile, chunks)
	if err != nil {
		return fmt.Errorf("%s: index: %w", fileName, err)
	}

	report.ChunksIndexed += stats.Indexed
	report.ChunksFailed += stats.Failed
	if stats.Failed > 0 {
		logger.Warn("%s: %d of %d chunks failed to index", fileName, stats.Failed, stats.Indexed+stats.Failed)
	}
	logger.Info("Indexed %s: %d chunks into %q", fileName, stats.Indexed, s.index)

	return nil
}

// acquire produces the raw document, either by reading a pre-extracted text
// file directly or by sending the file through the OCR provider.
func (s *IngestService) acquire(ctx context.Context, path string) (*domain.RawDocument, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if mimeType, ok := directMIMETypes[ext]; ok {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return &domain.RawDocument{
			SourceFile: filepath.Base(path),
			MIMEType:   mimeType,
			Content:    content,
		}, nil
	}

	if !ocrExtensions[ext] {
		return nil, fmt.Errorf("extension %q: %w", ext, domain.ErrUnsupportedType)
	}
	if s.provider == nil {
		return nil, fmt.Errorf("no OCR provider configured: %w", domain.ErrInvalidInput)
	}

	return s.provider.Extract(ctx, path)
}

// supported reports whether the file name has an ingestable extension.
func (s *IngestService) supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := directMIMETypes[ext]; ok {
		return true
	}
	return ocrExtensions[ext]
}
