package paddle

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/veridian-labs/docdex/internal/core/domain"
	"github.com/veridian-labs/docdex/internal/ocr"
)

func newTestProvider(apiURL string) *Provider {
	p := New(Config{
		AccessToken: "test-token",
		APIURL:      apiURL,
	})
	p.limiter = rate.NewLimiter(rate.Inf, 0)
	return p
}

func writeTestFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("file body"), 0o644))
	return path
}

func TestProvider_Name(t *testing.T) {
	assert.Equal(t, "paddle", New(Config{}).Name())
}

func TestExtract_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token test-token", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		decoded, err := base64.StdEncoding.DecodeString(payload["file"].(string))
		require.NoError(t, err)
		assert.Equal(t, "file body", string(decoded))
		assert.Equal(t, float64(0), payload["fileType"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{
				"layoutParsingResults": []map[string]any{
					{"markdown": map[string]any{"text": "# Page one"}},
					{"markdown": map[string]any{"text": "Page two body."}},
				},
			},
		})
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	raw, err := p.Extract(context.Background(), writeTestFile(t, "scan.pdf"))
	require.NoError(t, err)

	assert.Equal(t, "scan.pdf", raw.SourceFile)
	assert.Equal(t, "paddle", raw.Provider)
	assert.Equal(t, ocr.MarkdownMIMEType, raw.MIMEType)
	assert.Equal(t, "# Page one\n\n---\n\nPage two body.", string(raw.Content))
	assert.Equal(t, 2, raw.Metadata["pages"])
}

func TestExtract_ImageFileType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, float64(1), payload["fileType"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{
				"layoutParsingResults": []map[string]any{
					{"markdown": map[string]any{"text": "scan text"}},
				},
			},
		})
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	raw, err := p.Extract(context.Background(), writeTestFile(t, "photo.PNG"))
	require.NoError(t, err)
	assert.Equal(t, "scan text", string(raw.Content))
}

func TestExtract_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	raw, err := p.Extract(context.Background(), writeTestFile(t, "scan.pdf"))

	assert.Nil(t, raw)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestExtract_MissingResultField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"errorMsg": "bad request"})
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	raw, err := p.Extract(context.Background(), writeTestFile(t, "scan.pdf"))

	assert.Nil(t, raw)
	assert.ErrorIs(t, err, domain.ErrMalformedResult)
}

func TestExtract_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	_, err := p.Extract(context.Background(), writeTestFile(t, "scan.pdf"))

	var apiErr *ocr.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "paddle", apiErr.Provider)
}

func TestExtract_MissingFile(t *testing.T) {
	p := newTestProvider("http://unused.invalid")

	_, err := p.Extract(context.Background(), "/no/such/file.pdf")
	assert.Error(t, err)
}

func TestFileType(t *testing.T) {
	assert.Equal(t, fileTypePDF, fileType("/docs/a.pdf"))
	assert.Equal(t, fileTypePDF, fileType("/docs/a.PDF"))
	assert.Equal(t, fileTypeImage, fileType("/docs/a.png"))
	assert.Equal(t, fileTypeImage, fileType("/docs/noext"))
}
