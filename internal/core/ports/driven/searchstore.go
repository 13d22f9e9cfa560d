package driven

import (
	"context"

	"github.com/veridian-labs/docdex/internal/core/domain"
)

// SearchStore persists chunks and executes fuzzy free-text queries
// against them with relevance ranking.
type SearchStore interface {
	// EnsureIndex creates the named index with the chunk schema if it
	// does not exist. Idempotent; a no-op otherwise.
	EnsureIndex(ctx context.Context, name string) error

	// IndexChunks writes all chunks in one batch under the named index.
	// Each chunk receives a deterministic identifier combining sourceFile
	// and its position, so re-indexing the same file overwrites earlier
	// writes. Per-chunk failures are counted, not escalated; written
	// chunks are visible to queries as soon as the call returns.
	IndexChunks(ctx context.Context, index, sourceFile string, chunks []domain.Chunk) (domain.IndexStats, error)

	// Search executes an edit-distance-tolerant full-text match against
	// chunk content, returning up to topK results ordered by descending
	// relevance score.
	Search(ctx context.Context, index, query string, topK int) ([]domain.SearchResult, error)

	// Indexes lists the names of all existing indexes.
	Indexes(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close() error
}
