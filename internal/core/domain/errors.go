package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or normaliser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmptyExtraction indicates OCR produced no indexable text.
	// Treated as a pipeline-level failure rather than silently indexing
	// zero chunks.
	ErrEmptyExtraction = errors.New("extraction produced no text")

	// ErrOCRFailed indicates the OCR provider reported a failed job.
	ErrOCRFailed = errors.New("ocr extraction failed")

	// ErrOCRTimeout indicates the OCR poll loop exhausted its attempt
	// budget before the job completed.
	ErrOCRTimeout = errors.New("ocr extraction timed out")

	// ErrMalformedResult indicates the OCR provider response was missing
	// an expected field. Hard failure for that document's pipeline run.
	ErrMalformedResult = errors.New("malformed ocr result")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrIndexUnavailable indicates the search store is not configured.
	ErrIndexUnavailable = errors.New("search index unavailable")
)
