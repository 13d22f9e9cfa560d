package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleIndexesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil index lister returns empty list", func(t *testing.T) {
		ports := &Ports{Search: &mockSearchService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("docdex://indexes")
		result, err := server.handleIndexesResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns index names successfully", func(t *testing.T) {
		mockLister := &mockIndexLister{
			indexes: []string{"contracts", "invoices"},
		}

		ports := &Ports{Search: &mockSearchService{}, Indexes: mockLister}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("docdex://indexes")
		result, err := server.handleIndexesResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "contracts")
		assert.Contains(t, result.Contents[0].Text, "invoices")
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("nil slice marshals as empty list", func(t *testing.T) {
		mockLister := &mockIndexLister{}

		ports := &Ports{Search: &mockSearchService{}, Indexes: mockLister}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("docdex://indexes")
		result, err := server.handleIndexesResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		mockLister := &mockIndexLister{
			err: errors.New("database error"),
		}

		ports := &Ports{Search: &mockSearchService{}, Indexes: mockLister}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("docdex://indexes")
		_, err = server.handleIndexesResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing indexes")
	})
}
