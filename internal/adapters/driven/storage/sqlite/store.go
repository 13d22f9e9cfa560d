package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/veridian-labs/docdex/internal/core/domain"
	"github.com/veridian-labs/docdex/internal/core/ports/driven"
)

const (
	// chunkTablePrefix prefixes the metadata table of each index.
	chunkTablePrefix = "chunks_"

	// ftsTablePrefix prefixes the FTS5 table of each index.
	ftsTablePrefix = "fts_"

	// vocabTablePrefix prefixes the fts5vocab table of each index.
	vocabTablePrefix = "vocab_"
)

// indexNamePattern restricts index names to identifier-safe characters,
// since they become part of table names.
var indexNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Ensure Store implements the interface.
var _ driven.SearchStore = (*Store)(nil)

// Store is the SQLite-backed search store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docdex/data/docdex.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docdex", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "docdex.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &Store{
		db:   db,
		path: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// EnsureIndex creates the tables backing the named index if they do not
// exist. Idempotent.
func (s *Store) EnsureIndex(ctx context.Context, name string) error {
	if err := validateIndexName(name); err != nil {
		return err
	}

	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				chunk_id TEXT PRIMARY KEY,
				source_file TEXT NOT NULL,
				content TEXT NOT NULL,
				position INTEGER NOT NULL,
				created_at DATETIME NOT NULL
			)
		`, chunkTablePrefix+name),
		fmt.Sprintf(`
			CREATE VIRTUAL TABLE IF NOT EXISTS %s USING fts5(
				content,
				chunk_id UNINDEXED,
				source_file UNINDEXED
			)
		`, ftsTablePrefix+name),
		fmt.Sprintf(
			"CREATE VIRTUAL TABLE IF NOT EXISTS %s USING fts5vocab(%s, row)",
			vocabTablePrefix+name, ftsTablePrefix+name,
		),
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating index %s: %w", name, err)
		}
	}

	return nil
}

// IndexChunks writes all chunks in one batch. Chunk identifiers are
// "<sourceFile>_<position>", so re-indexing the same file overwrites
// earlier rows instead of duplicating them. Per-chunk write failures are
// counted and reported, not escalated.
func (s *Store) IndexChunks(ctx context.Context, index, sourceFile string, chunks []domain.Chunk) (domain.IndexStats, error) {
	var stats domain.IndexStats

	if err := validateIndexName(index); err != nil {
		return stats, err
	}
	if exists, err := s.indexExists(ctx, index); err != nil {
		return stats, err
	} else if !exists {
		return stats, fmt.Errorf("index %s: %w", index, domain.ErrIndexUnavailable)
	}

	chunkTable := chunkTablePrefix + index
	ftsTable := ftsTablePrefix + index
	now := time.Now().UTC()

	for _, chunk := range chunks {
		chunkID := fmt.Sprintf("%s_%d", sourceFile, chunk.Position)
		if err := s.writeChunk(ctx, chunkTable, ftsTable, chunkID, sourceFile, chunk, now); err != nil {
			stats.Failed++
			continue
		}
		stats.Indexed++
	}

	return stats, nil
}

// writeChunk upserts one chunk into the metadata and FTS tables in a single
// transaction.
func (s *Store) writeChunk(ctx context.Context, chunkTable, ftsTable, chunkID, sourceFile string, chunk domain.Chunk, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		fmt.Sprintf(`
			INSERT INTO %s (chunk_id, source_file, content, position, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(chunk_id) DO UPDATE SET
				source_file = excluded.source_file,
				content = excluded.content,
				position = excluded.position,
				created_at = excluded.created_at
		`, chunkTable),
		chunkID, sourceFile, chunk.Content, chunk.Position, now,
	)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE chunk_id = ?", ftsTable), chunkID,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (content, chunk_id, source_file) VALUES (?, ?, ?)", ftsTable),
		chunk.Content, chunkID, sourceFile,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// Search runs an edit-distance-tolerant full-text query, ranked by bm25.
func (s *Store) Search(ctx context.Context, index, query string, topK int) ([]domain.SearchResult, error) {
	if err := validateIndexName(index); err != nil {
		return nil, err
	}
	if exists, err := s.indexExists(ctx, index); err != nil {
		return nil, err
	} else if !exists {
		return nil, fmt.Errorf("index %s: %w", index, domain.ErrIndexUnavailable)
	}
	if topK <= 0 {
		return nil, nil
	}

	matchExpr, err := s.buildMatchExpression(ctx, index, query)
	if err != nil {
		return nil, err
	}
	if matchExpr == "" {
		return nil, nil
	}

	ftsTable := ftsTablePrefix + index
	chunkTable := chunkTablePrefix + index

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`
			SELECT f.chunk_id, f.source_file, f.content, c.position, c.created_at,
			       bm25(%s) AS rank
			FROM %s f
			JOIN %s c ON c.chunk_id = f.chunk_id
			WHERE %s MATCH ?
			ORDER BY rank
			LIMIT ?
		`, ftsTable, ftsTable, chunkTable, ftsTable),
		matchExpr, topK,
	)
	if err != nil {
		return nil, fmt.Errorf("searching index %s: %w", index, err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var (
			chunk domain.Chunk
			rank  float64
		)
		if err := rows.Scan(&chunk.ID, &chunk.SourceFile, &chunk.Content, &chunk.Position, &chunk.CreatedAt, &rank); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}

		// bm25 ranks better matches more negative; negate for a
		// positive, descending score.
		results = append(results, domain.SearchResult{
			Chunk: chunk,
			Index: index,
			Score: -rank,
		})
	}

	return results, rows.Err()
}

// Indexes lists the names of all existing indexes.
func (s *Store) Indexes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master
		 WHERE type = 'table' AND name LIKE ? ESCAPE '\'
		 ORDER BY name`,
		strings.ReplaceAll(chunkTablePrefix, "_", `\_`)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("listing indexes: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var table string
		if err := rows.Scan(&table); err != nil {
			return nil, err
		}
		names = append(names, strings.TrimPrefix(table, chunkTablePrefix))
	}

	return names, rows.Err()
}

// indexExists reports whether the named index's metadata table exists.
func (s *Store) indexExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
		chunkTablePrefix+name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking index %s: %w", name, err)
	}
	return count > 0, nil
}

func validateIndexName(name string) error {
	if !indexNamePattern.MatchString(name) {
		return fmt.Errorf("index name %q: %w", name, domain.ErrInvalidInput)
	}
	return nil
}
