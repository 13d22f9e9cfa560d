// Package sqlite provides the SQLite-backed implementation of the
// SearchStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Each named index maps to
// three tables: a chunk metadata table, an FTS5 full-text table over chunk
// content, and an fts5vocab vocabulary table used for fuzzy query-term
// expansion.
//
// # Fuzzy matching
//
// FTS5 has no native edit-distance operator, so Search expands each query
// term against the index vocabulary within a length-scaled Levenshtein bound
// before running the MATCH. Results are ranked with bm25.
//
// # Data Location
//
// By default, the database is stored at ~/.docdex/data/docdex.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode. Writes are durable and immediately visible
// to subsequent queries; there is no asynchronous refresh.
package sqlite
