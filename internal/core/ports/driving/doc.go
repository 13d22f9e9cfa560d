// Package driving defines the inbound ports of the core: the interfaces
// through which the CLI, TUI and MCP adapters drive the ingest and
// search services.
package driving
