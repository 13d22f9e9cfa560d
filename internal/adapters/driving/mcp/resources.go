package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for docdex resources.
	uriScheme = "docdex://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing indexes.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "indexes",
		Name:        "indexes",
		Description: "List of all document indexes",
		MIMEType:    "application/json",
	}, s.handleIndexesResource)
}

// handleIndexesResource returns a list of all index names.
func (s *Server) handleIndexesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Indexes == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	names, err := s.ports.Indexes.Indexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing indexes: %w", err)
	}
	if names == nil {
		names = []string{}
	}

	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling indexes: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
