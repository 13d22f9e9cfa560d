// Package mcp provides an MCP (Model Context Protocol) server adapter for
// docdex. It enables AI assistants to query the local document index.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
