// Package services implements the driving ports: the ingest orchestrator
// (OCR acquisition, cleaning, chunking, indexing) and the search service
// (multi-index fan-out with score-ordered merge). Services hold no state
// beyond their injected collaborators.
package services
