package mcp

import (
	"context"

	"github.com/veridian-labs/docdex/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	opts    domain.SearchOptions
	err     error
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.opts = opts
	return m.results, m.err
}

// mockIndexLister is a mock implementation of IndexLister.
type mockIndexLister struct {
	indexes []string
	err     error
}

func (m *mockIndexLister) Indexes(_ context.Context) ([]string, error) {
	return m.indexes, m.err
}
