package cli

import (
	"context"

	"github.com/veridian-labs/docdex/internal/core/domain"
	"github.com/veridian-labs/docdex/internal/core/ports/driving"
)

// mockSearchService returns canned results for every query.
type mockSearchService struct {
	results []domain.SearchResult
	opts    domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.opts = opts
	return m.results, nil
}

// mockSearchServiceError fails every query.
type mockSearchServiceError struct{}

func (m *mockSearchServiceError) Search(
	_ context.Context,
	_ string,
	_ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return nil, domain.ErrIndexUnavailable
}

// mockSearchStore implements the minimal SearchStore surface the CLI
// touches.
type mockSearchStore struct {
	indexes []string
}

func (m *mockSearchStore) EnsureIndex(_ context.Context, _ string) error { return nil }

func (m *mockSearchStore) IndexChunks(
	_ context.Context, _, _ string, chunks []domain.Chunk,
) (domain.IndexStats, error) {
	return domain.IndexStats{Indexed: len(chunks)}, nil
}

func (m *mockSearchStore) Search(
	_ context.Context, _, _ string, _ int,
) ([]domain.SearchResult, error) {
	return nil, nil
}

func (m *mockSearchStore) Indexes(_ context.Context) ([]string, error) {
	return m.indexes, nil
}

func (m *mockSearchStore) Close() error { return nil }

// mockIngestService records the paths it was asked to ingest.
type mockIngestService struct {
	files   []string
	folders []string
	report  *driving.IngestReport
	err     error
}

func (m *mockIngestService) IngestFile(_ context.Context, path string) (*driving.IngestReport, error) {
	m.files = append(m.files, path)
	return m.report, m.err
}

func (m *mockIngestService) IngestFolder(_ context.Context, dir string) (*driving.IngestReport, error) {
	m.folders = append(m.folders, dir)
	return m.report, m.err
}

// setupTestServices injects mock services so commands run without real
// config, stores or providers. The returned cleanup restores the package
// state.
func setupTestServices() func() {
	oldSearchService := searchService
	oldSearchStore := searchStore
	oldIngestService := ingestService

	searchService = &mockSearchService{
		results: []domain.SearchResult{
			{
				Chunk: domain.Chunk{
					ID:         "report.pdf_0",
					SourceFile: "report.pdf",
					Content:    "The invoice total is due in March.",
				},
				Index:      "invoices",
				Score:      3.1,
				Highlights: []string{"The invoice total is due in March."},
			},
		},
	}
	searchStore = &mockSearchStore{indexes: []string{"invoices"}}
	ingestService = &mockIngestService{report: &driving.IngestReport{
		FilesProcessed: 1,
		ChunksIndexed:  2,
	}}

	return func() {
		searchService = oldSearchService
		searchStore = oldSearchStore
		ingestService = oldIngestService
	}
}
