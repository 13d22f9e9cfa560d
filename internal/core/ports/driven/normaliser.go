package driven

import (
	"context"

	"github.com/veridian-labs/docdex/internal/core/domain"
)

// Normaliser transforms raw extracted text into cleaned document form.
// Each normaliser handles specific MIME types (e.g. OCR markdown, plain
// text).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Specialised normalisers should return 50-89, fallbacks 1-9.
	Priority() int

	// Normalise transforms a raw document into a cleaned document.
	// Chunking is handled by the PostProcessor pipeline.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
type NormaliseResult struct {
	// Document is the cleaned document with Content populated.
	Document domain.Document
}

// NormaliserRegistry selects the appropriate normaliser for a document
// based on MIME type and priority.
type NormaliserRegistry interface {
	// Normalise transforms a raw document using the best matching normaliser.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string
}
