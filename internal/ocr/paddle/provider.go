// Package paddle implements the OCR provider port against the PaddleOCR
// PP-StructureV3 layout-parsing API: a single synchronous POST carrying the
// file as base64, returning per-page markdown.
package paddle

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/veridian-labs/docdex/internal/core/domain"
	"github.com/veridian-labs/docdex/internal/core/ports/driven"
	"github.com/veridian-labs/docdex/internal/ocr"
)

const (
	// DefaultTimeout covers the whole synchronous parse call; layout
	// parsing of a long PDF takes minutes.
	DefaultTimeout = 10 * time.Minute

	// ProactiveRate is the proactive throttle rate in requests per second.
	// The hosted API enforces a small daily quota.
	ProactiveRate = 0.2

	// pageSeparator joins the markdown of consecutive pages.
	pageSeparator = "\n\n---\n\n"

	providerName = "paddle"

	fileTypePDF   = 0
	fileTypeImage = 1
)

// Config holds the provider settings.
type Config struct {
	// AccessToken is the AI Studio token.
	AccessToken string

	// APIURL is the layout-parsing endpoint.
	APIURL string

	// UseChartRecognition enables chart parsing (slower).
	UseChartRecognition bool

	// UseDocUnwarping enables unwarping for photographed documents.
	UseDocUnwarping bool
}

// Ensure Provider implements the interface.
var _ driven.OCRProvider = (*Provider)(nil)

// Provider calls the PaddleOCR layout-parsing API.
type Provider struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
}

// New creates a PaddleOCR provider.
func New(cfg Config) *Provider {
	return &Provider{
		cfg:     cfg,
		client:  &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return providerName
}

type parseResponse struct {
	Result *parseResult `json:"result"`
}

type parseResult struct {
	LayoutParsingResults []layoutResult `json:"layoutParsingResults"`
}

type layoutResult struct {
	Markdown struct {
		Text string `json:"text"`
	} `json:"markdown"`
}

// Extract posts the file and joins the per-page markdown.
func (p *Provider) Extract(ctx context.Context, path string) (*domain.RawDocument, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	payload := map[string]any{
		"file":                      base64.StdEncoding.EncodeToString(fileBytes),
		"fileType":                  fileType(path),
		"useDocOrientationClassify": false,
		"useDocUnwarping":           p.cfg.UseDocUnwarping,
		"useChartRecognition":       p.cfg.UseChartRecognition,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+p.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%s: daily parsing quota reached: %w", providerName, domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ocr.APIError{Provider: providerName, StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", domain.ErrMalformedResult)
	}
	if parsed.Result == nil {
		return nil, fmt.Errorf("response missing result field: %w", domain.ErrMalformedResult)
	}

	parts := make([]string, 0, len(parsed.Result.LayoutParsingResults))
	for _, page := range parsed.Result.LayoutParsingResults {
		parts = append(parts, page.Markdown.Text)
	}

	return &domain.RawDocument{
		SourceFile: filepath.Base(path),
		Provider:   providerName,
		MIMEType:   ocr.MarkdownMIMEType,
		Content:    []byte(strings.Join(parts, pageSeparator)),
		Metadata: map[string]any{
			"pages": len(parts),
		},
	}, nil
}

// fileType maps the extension onto the API's file type discriminator.
func fileType(path string) int {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fileTypePDF
	}
	return fileTypeImage
}
