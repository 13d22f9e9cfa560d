package driven

import (
	"context"

	"github.com/veridian-labs/docdex/internal/core/domain"
)

// OCRProvider extracts text from a scanned or PDF document via a remote
// OCR service. Implementations handle only the API call and result-shape
// parsing; cleaning is shared and lives in the normalisers.
type OCRProvider interface {
	// Name returns the provider identifier (e.g. "mineru", "paddle").
	Name() string

	// Extract submits the file at path, waits for the extraction to
	// complete, and returns the raw extracted text/markup.
	// Returns domain.ErrOCRFailed when the provider reports a failed job,
	// domain.ErrOCRTimeout when the poll budget is exhausted, and
	// domain.ErrRateLimited on provider throttling.
	Extract(ctx context.Context, path string) (*domain.RawDocument, error)
}
