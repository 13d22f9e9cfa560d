// Package chunker provides a paragraph-aware text chunking processor.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/veridian-labs/docdex/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Processor splits document content into overlapping chunks on paragraph
// boundaries. A paragraph is never split across chunks; a paragraph longer
// than the chunk size becomes an oversized chunk of its own.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must stay strictly below the chunk size.
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if strings.TrimSpace(doc.Content) == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	paragraphs := strings.Split(doc.Content, "\n\n")
	chunks := make([]domain.Chunk, 0, len(doc.Content)/p.chunkSize+1)

	emit := func(content string) {
		chunks = append(chunks, domain.Chunk{
			SourceFile: doc.SourceFile,
			Content:    content,
			Position:   len(chunks),
		})
	}

	var buffer string
	for _, paragraph := range paragraphs {
		if utf8.RuneCountInString(buffer)+utf8.RuneCountInString(paragraph) < p.chunkSize {
			buffer += paragraph + "\n\n"
			continue
		}

		if trimmed := strings.TrimSpace(buffer); trimmed != "" {
			emit(trimmed)
		}

		// Seed the next buffer with the tail of the previous one so
		// context carries across the split boundary.
		buffer = overlapTail(buffer, p.overlap) + paragraph + "\n\n"
	}

	if trimmed := strings.TrimSpace(buffer); trimmed != "" {
		emit(trimmed)
	}

	return chunks, nil
}

// overlapTail returns at most the last n characters of s. Sizes are
// measured in runes, not bytes, so multi-byte text carries the same
// amount of context as ASCII.
func overlapTail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	cut := len(s)
	for i := 0; i < n; i++ {
		_, size := utf8.DecodeLastRuneInString(s[:cut])
		cut -= size
	}
	return s[cut:]
}
