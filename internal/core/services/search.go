package services

import (
	"context"
	"sort"
	"strings"

	"github.com/veridian-labs/docdex/internal/core/domain"
	"github.com/veridian-labs/docdex/internal/core/ports/driven"
	"github.com/veridian-labs/docdex/internal/core/ports/driving"
	"github.com/veridian-labs/docdex/internal/logger"
)

// DefaultSearchLimit caps results when the caller does not set one.
const DefaultSearchLimit = 10

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers free-text queries by fanning out to one or more
// indexes and merging the hits by score.
type SearchService struct {
	store driven.SearchStore
}

// NewSearchService creates a new search service.
func NewSearchService(store driven.SearchStore) *SearchService {
	return &SearchService{store: store}
}

// Search queries the requested indexes (all existing ones when unset) and
// returns results merged by descending relevance score.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	indexes := opts.Indexes
	if len(indexes) == 0 {
		existing, err := s.store.Indexes(ctx)
		if err != nil {
			return nil, err
		}
		indexes = existing
	}
	logger.Debug("Limit: %d, indexes: %v", limit, indexes)

	var merged []domain.SearchResult
	for _, index := range indexes {
		results, err := s.store.Search(ctx, index, query, limit)
		if err != nil {
			return nil, err
		}
		merged = append(merged, results...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}

	for i := range merged {
		merged[i].Highlights = generateHighlights(merged[i].Chunk.Content, query)
	}

	logger.Info("Search returned %d results", len(merged))
	return merged, nil
}

// generateHighlights creates text snippets with matched terms.
func generateHighlights(content, query string) []string {
	queryTerms := strings.Fields(strings.ToLower(query))
	if len(queryTerms) == 0 {
		return nil
	}

	var highlights []string

	for _, sentence := range splitSentences(content) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		sentenceLower := strings.ToLower(sentence)
		for _, term := range queryTerms {
			if strings.Contains(sentenceLower, term) {
				highlight := sentence
				if len(highlight) > 200 {
					highlight = highlight[:200] + "..."
				}
				highlights = append(highlights, highlight)
				break
			}
		}

		if len(highlights) >= 3 {
			break // Limit to 3 highlights
		}
	}

	return highlights
}

// splitSentences splits content into sentences.
func splitSentences(content string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range content {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			s := strings.TrimSpace(current.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
