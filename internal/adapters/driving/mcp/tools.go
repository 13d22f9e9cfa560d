package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/veridian-labs/docdex/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find document chunks"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Index string `json:"index,omitempty" jsonschema:"restrict the search to a single index name"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ChunkID    string   `json:"chunk_id"`
	SourceFile string   `json:"source_file"`
	Index      string   `json:"index"`
	Score      float64  `json:"score"`
	Highlights []string `json:"highlights,omitempty"`
	Content    string   `json:"content,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search across all indexed documents",
	}, s.handleSearch)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	opts := domain.SearchOptions{Limit: limit}
	if input.Index != "" {
		opts.Indexes = []string{input.Index}
	}

	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			ChunkID:    results[i].Chunk.ID,
			SourceFile: results[i].Chunk.SourceFile,
			Index:      results[i].Index,
			Score:      results[i].Score,
			Highlights: results[i].Highlights,
			Content:    results[i].Chunk.Content,
		}
	}

	return nil, output, nil
}
