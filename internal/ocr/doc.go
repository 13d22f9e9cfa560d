// Package ocr contains adapters for remote OCR providers. Each provider
// handles only its API call shape and result parsing; the shared cleaning
// and chunking logic lives in the normalisers and postprocessors.
package ocr
