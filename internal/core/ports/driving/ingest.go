package driving

import "context"

// IngestOrchestrator sequences OCR acquisition, cleaning, chunking and
// indexing for documents.
type IngestOrchestrator interface {
	// IngestFile runs the full pipeline for a single document.
	IngestFile(ctx context.Context, path string) (*IngestReport, error)

	// IngestFolder processes every matching document in a folder, one at
	// a time. A failure in one document is logged and does not abort the
	// others.
	IngestFolder(ctx context.Context, dir string) (*IngestReport, error)
}

// IngestReport summarises one ingest run.
type IngestReport struct {
	// FilesProcessed is the count of documents fully ingested.
	FilesProcessed int

	// FilesFailed is the count of documents that failed.
	FilesFailed int

	// ChunksIndexed is the total number of chunks written.
	ChunksIndexed int

	// ChunksFailed is the total number of chunk writes that failed.
	ChunksFailed int
}
