// Package domain contains the core business entities for docdex:
// documents, chunks, search results, and the sentinel errors shared
// across the ingest and query pipelines.
package domain
