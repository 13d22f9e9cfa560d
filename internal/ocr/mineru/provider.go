// Package mineru implements the OCR provider port against the MinerU
// batch extraction API: request an upload URL, upload the file, poll the
// batch until it completes, then download and unpack the result archive.
package mineru

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
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
	// DefaultBaseURL is the MinerU API v4 endpoint.
	DefaultBaseURL = "https://mineru.net/api/v4"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultDownloadTimeout is the timeout for fetching the result archive.
	DefaultDownloadTimeout = 5 * time.Minute

	// DefaultPollInterval is the delay between batch status checks.
	DefaultPollInterval = 10 * time.Second

	// DefaultMaxPollAttempts bounds the poll loop. Exhausting it surfaces
	// domain.ErrOCRTimeout instead of blocking forever.
	DefaultMaxPollAttempts = 60

	// ProactiveRate is the proactive throttle rate in requests per second.
	ProactiveRate = 1.0

	// DefaultModelVersion selects the extraction model. "vlm" handles
	// complex layouts but hallucinates on dense tables; the noise filter
	// downstream exists because of it.
	DefaultModelVersion = "vlm"

	providerName = "mineru"
)

// Config holds the provider settings. All fields are explicit; nothing is
// read from process-wide state.
type Config struct {
	// APIKey is the MinerU bearer token.
	APIKey string

	// BaseURL overrides the API endpoint (used in tests).
	BaseURL string

	// ModelVersion is "vlm", "mfd" or "auto".
	ModelVersion string

	// PollInterval is the delay between batch status checks.
	PollInterval time.Duration

	// MaxPollAttempts bounds the poll loop.
	MaxPollAttempts int
}

// Ensure Provider implements the interface.
var _ driven.OCRProvider = (*Provider)(nil)

// Provider calls the MinerU batch extraction API.
type Provider struct {
	cfg      Config
	client   *http.Client
	download *http.Client
	limiter  *rate.Limiter
}

// New creates a MinerU provider, filling unset config fields with defaults.
func New(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ModelVersion == "" {
		cfg.ModelVersion = DefaultModelVersion
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.MaxPollAttempts <= 0 {
		cfg.MaxPollAttempts = DefaultMaxPollAttempts
	}

	return &Provider{
		cfg:      cfg,
		client:   &http.Client{Timeout: DefaultTimeout},
		download: &http.Client{Timeout: DefaultDownloadTimeout},
		limiter:  rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return providerName
}

// Extract submits the file, waits for the batch to finish and returns the
// concatenated markdown from the result archive.
func (p *Provider) Extract(ctx context.Context, path string) (*domain.RawDocument, error) {
	fileName := filepath.Base(path)

	batchID, uploadURL, err := p.requestUploadURL(ctx, fileName)
	if err != nil {
		return nil, fmt.Errorf("request upload url: %w", err)
	}

	if err := p.uploadFile(ctx, uploadURL, path); err != nil {
		return nil, fmt.Errorf("upload %s: %w", fileName, err)
	}

	zipURL, err := p.pollBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("poll batch %s: %w", batchID, err)
	}

	content, err := p.downloadResult(ctx, zipURL)
	if err != nil {
		return nil, fmt.Errorf("download result: %w", err)
	}

	return &domain.RawDocument{
		SourceFile: fileName,
		Provider:   providerName,
		MIMEType:   ocr.MarkdownMIMEType,
		Content:    content,
		Metadata: map[string]any{
			"batch_id":      batchID,
			"model_version": p.cfg.ModelVersion,
		},
	}, nil
}

type batchEnvelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type uploadData struct {
	BatchID  string   `json:"batch_id"`
	FileURLs []string `json:"file_urls"`
}

type extractData struct {
	ExtractResult []extractResult `json:"extract_result"`
}

type extractResult struct {
	State      string `json:"state"`
	FullZipURL string `json:"full_zip_url"`
	ErrMsg     string `json:"err_msg"`
}

// requestUploadURL asks the API for a batch id and a presigned upload URL.
func (p *Provider) requestUploadURL(ctx context.Context, fileName string) (batchID, uploadURL string, err error) {
	payload := map[string]any{
		"files": []map[string]any{
			{
				"name":    fileName,
				"data_id": strings.TrimSuffix(fileName, filepath.Ext(fileName)),
			},
		},
		"model_version":  p.cfg.ModelVersion,
		"enable_formula": true,
		"enable_table":   true,
	}

	var data uploadData
	if err := p.postJSON(ctx, p.cfg.BaseURL+"/file-urls/batch", payload, &data); err != nil {
		return "", "", err
	}

	if data.BatchID == "" || len(data.FileURLs) == 0 {
		return "", "", fmt.Errorf("upload response missing batch_id or file_urls: %w", domain.ErrMalformedResult)
	}

	return data.BatchID, data.FileURLs[0], nil
}

// uploadFile PUTs the file body to the presigned URL.
func (p *Provider) uploadFile(ctx context.Context, uploadURL, path string) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, f)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ocr.APIError{Provider: providerName, StatusCode: resp.StatusCode, Message: "upload rejected"}
	}

	return nil
}

// pollBatch checks the batch status at the configured interval until it is
// done, failed, or the attempt budget runs out.
func (p *Provider) pollBatch(ctx context.Context, batchID string) (string, error) {
	statusURL := p.cfg.BaseURL + "/extract-results/batch/" + batchID

	for attempt := 0; attempt < p.cfg.MaxPollAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(p.cfg.PollInterval):
			}
		}

		var data extractData
		if err := p.getJSON(ctx, statusURL, &data); err != nil {
			return "", err
		}
		if len(data.ExtractResult) == 0 {
			return "", fmt.Errorf("batch status missing extract_result: %w", domain.ErrMalformedResult)
		}

		result := data.ExtractResult[0]
		switch result.State {
		case "done":
			if result.FullZipURL == "" {
				return "", fmt.Errorf("done batch missing full_zip_url: %w", domain.ErrMalformedResult)
			}
			return result.FullZipURL, nil
		case "failed":
			return "", fmt.Errorf("%s: %w", result.ErrMsg, domain.ErrOCRFailed)
		}
	}

	return "", fmt.Errorf("still pending after %d attempts: %w", p.cfg.MaxPollAttempts, domain.ErrOCRTimeout)
}

// downloadResult fetches the result archive and concatenates the markdown
// members in archive order.
func (p *Provider) downloadResult(ctx context.Context, zipURL string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, zipURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.download.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ocr.APIError{Provider: providerName, StatusCode: resp.StatusCode, Message: "result download failed"}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	reader, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("result archive unreadable: %w", domain.ErrMalformedResult)
	}

	var markdown bytes.Buffer
	for _, file := range reader.File {
		if !strings.HasSuffix(file.Name, ".md") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive member %s: %w", file.Name, err)
		}
		if _, err := markdown.ReadFrom(rc); err != nil {
			rc.Close()
			return nil, fmt.Errorf("read archive member %s: %w", file.Name, err)
		}
		rc.Close()
		markdown.WriteString("\n\n")
	}

	if markdown.Len() == 0 {
		return nil, fmt.Errorf("result archive contains no markdown: %w", domain.ErrEmptyExtraction)
	}

	return markdown.Bytes(), nil
}

// postJSON sends an authenticated POST and decodes the envelope's data field.
func (p *Provider) postJSON(ctx context.Context, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.doJSON(ctx, http.MethodPost, url, bytes.NewReader(body), out)
}

// getJSON sends an authenticated GET and decodes the envelope's data field.
func (p *Provider) getJSON(ctx context.Context, url string, out any) error {
	return p.doJSON(ctx, http.MethodGet, url, nil, out)
}

func (p *Provider) doJSON(ctx context.Context, method, url string, body io.Reader, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w", providerName, domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return &ocr.APIError{Provider: providerName, StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var envelope batchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", domain.ErrMalformedResult)
	}
	if envelope.Code != 0 {
		return fmt.Errorf("%s: code %d: %s: %w", providerName, envelope.Code, envelope.Msg, domain.ErrOCRFailed)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", domain.ErrMalformedResult)
	}

	return nil
}
