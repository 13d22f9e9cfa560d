// Package ocrtext cleans the markdown produced by OCR providers: it
// removes hallucinated repeated-token noise, converts embedded HTML
// tables into delimited text, unwraps structural markup and collapses
// excess whitespace. One shared cleaner serves every provider; the
// provider adapters only differ in how they call the remote API.
package ocrtext

import (
	"context"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veridian-labs/docdex/internal/core/domain"
	"github.com/veridian-labs/docdex/internal/core/ports/driven"
	"github.com/veridian-labs/docdex/internal/ocr"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser cleans OCR-extracted markdown.
type Normaliser struct {
	noise *NoiseFilter
}

// Option configures the normaliser.
type Option func(*Normaliser)

// WithGarbagePatterns overrides the hallucination denylist. The default
// set is tuned to one provider's observed failure modes and does not
// generalise to other providers or languages.
func WithGarbagePatterns(patterns []*regexp.Regexp) Option {
	return func(n *Normaliser) {
		n.noise = NewNoiseFilter(patterns)
	}
}

// New creates a new OCR text normaliser.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{
		noise: NewNoiseFilter(nil),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
// Only provider-produced markup is claimed; hand-written markdown carries
// text/markdown and goes through the plaintext normaliser untouched.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{ocr.MarkdownMIMEType}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 60
}

// Normalise cleans a raw OCR result into a document.
// Chunking is handled by the PostProcessor pipeline.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := n.Clean(string(raw.Content))
	title := extractTitle(content, raw.SourceFile)

	doc := domain.Document{
		ID:         uuid.New().String(),
		SourceFile: raw.SourceFile,
		Provider:   raw.Provider,
		Title:      title,
		Content:    content,
		Metadata:   copyMetadata(raw.Metadata),
		CreatedAt:  time.Now(),
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType

	return &driven.NormaliseResult{Document: doc}, nil
}

// Clean runs the full cleaning pass: noise filtering, table conversion,
// markup stripping, whitespace collapsing.
func (n *Normaliser) Clean(text string) string {
	text = n.noise.Filter(text)
	text = convertTables(text)
	text = convertMarkup(text)
	return text
}

// Pre-compiled regular expressions for the markup pass.
var (
	centeredDiv   = regexp.MustCompile(`(?is)<div[^>]*text-align:\s*center[^>]*>(.*?)</div>`)
	divSpanTags   = regexp.MustCompile(`(?i)</?(?:div|span)[^>]*>`)
	brTags        = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	emptyEmphasis = regexp.MustCompile(`\*\*\s*\*\*`)
	multiNewlines = regexp.MustCompile(`\n{4,}`)
	multiSpaces   = regexp.MustCompile(` {3,}`)
	firstHeading  = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
)

// convertMarkup applies the remaining tag conversions: a centered <div>
// becomes emphasised inline text, other <div>/<span> are unwrapped, <br>
// becomes a newline, leftover tags are stripped and whitespace clusters
// are collapsed.
func convertMarkup(text string) string {
	text = centeredDiv.ReplaceAllStringFunc(text, func(m string) string {
		inner := centeredDiv.FindStringSubmatch(m)[1]
		inner = strings.TrimSpace(stripTags(inner))
		if inner == "" {
			return ""
		}
		return "**" + inner + "**"
	})

	text = brTags.ReplaceAllString(text, "\n")
	text = divSpanTags.ReplaceAllString(text, "")
	text = allTags.ReplaceAllString(text, "")
	text = html.UnescapeString(text)

	text = emptyEmphasis.ReplaceAllString(text, "")
	text = multiNewlines.ReplaceAllString(text, "\n\n\n")
	text = multiSpaces.ReplaceAllString(text, "  ")

	return text
}

// extractTitle takes the first markdown heading, falling back to a
// prettified file name.
func extractTitle(content, sourceFile string) string {
	if m := firstHeading.FindStringSubmatch(content); len(m) > 1 {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}

	filename := filepath.Base(sourceFile)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
