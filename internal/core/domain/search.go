package domain

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int

	// Indexes restricts the query to specific index names.
	// Empty means all configured indexes.
	Indexes []string
}

// SearchResult represents a single search hit.
// Results are never persisted; they are constructed fresh per query.
type SearchResult struct {
	// Chunk is the matched chunk, hydrated with content and source file.
	Chunk Chunk

	// Index is the name of the index the hit came from.
	Index string

	// Score is the relevance score (higher = more relevant).
	Score float64

	// Highlights contains snippets with matched terms.
	Highlights []string
}
