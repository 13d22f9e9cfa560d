package domain

// RawDocument represents the unprocessed text/markup returned by an OCR
// provider (or read directly from disk) for one source document.
// It is immutable once produced and owned by the ingest pipeline until
// cleaned.
type RawDocument struct {
	// SourceFile is the originating file name.
	SourceFile string

	// Provider names the OCR provider that produced the content.
	// Empty for documents read directly from disk.
	Provider string

	// MIMEType is the content type of the extracted text
	// (e.g. "text/markdown").
	MIMEType string

	// Content is the raw extracted bytes.
	Content []byte

	// Metadata contains provider-specific key-value pairs.
	Metadata map[string]any
}
