package driving

import (
	"context"

	"github.com/veridian-labs/docdex/internal/core/domain"
)

// SearchService answers free-text queries with ranked chunks.
type SearchService interface {
	// Search queries the configured indexes and returns results merged
	// by descending relevance score.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
