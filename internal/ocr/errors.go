package ocr

import "fmt"

// APIError represents an unexpected HTTP response from an OCR provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: API error %d: %s", e.Provider, e.StatusCode, e.Message)
}
