// Package normalisers turns raw OCR output into cleaned documents.
// Each normaliser handles specific MIME types: ocrtext cleans the
// markdown/markup produced by the OCR providers, plaintext passes
// pre-extracted text through. The registry picks the highest-priority
// normaliser for a document's MIME type.
package normalisers
