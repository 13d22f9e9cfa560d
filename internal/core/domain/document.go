package domain

import "time"

// Document represents one source document after OCR extraction and cleaning.
// It is the canonical representation before chunking.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourceFile is the originating file name (e.g. "report.pdf").
	SourceFile string

	// Provider names the OCR provider that produced the text.
	Provider string

	// Title is the human-readable title.
	Title string

	// Content is the full text content after cleaning.
	// This is the complete document text before chunking.
	Content string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was extracted.
	CreatedAt time.Time
}

// Chunk represents a searchable unit within a document.
// Documents are split into overlapping chunks for granular retrieval.
type Chunk struct {
	// ID is the unique identifier, "<source_file>_<position>".
	// Assigned by the search store at indexing time; deterministic so
	// re-indexing the same file overwrites rather than duplicates.
	ID string

	// SourceFile is the originating file name.
	SourceFile string

	// Content is the text content of this chunk.
	// Non-empty after trimming. Length stays under the configured chunk
	// size unless a single paragraph alone exceeds it.
	Content string

	// Position is the 0-based ordinal within the document, in emission order.
	Position int

	// CreatedAt is set when the chunk is written to the index.
	CreatedAt time.Time
}

// IndexStats reports the outcome of one batch index write.
// Partial failures are counted, not escalated.
type IndexStats struct {
	// Indexed is the number of chunks written successfully.
	Indexed int

	// Failed is the number of chunks that could not be written.
	Failed int
}
