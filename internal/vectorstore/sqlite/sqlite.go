// Package sqlite provides a persistent on-disk vector store backed by SQLite.
// The store survives process restarts and is safe for concurrent readers;
// serializing rebuilds against readers is the operator's responsibility.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"librarian/internal/domain"
	"librarian/internal/vectorstore"
)

// Store implements domain.VectorStore on a single SQLite file. Records are
// scoped to a named collection so independent indexes can share the file.
type Store struct {
	mu         sync.RWMutex
	db         *sql.DB
	collection string
}

// Open creates or opens the store under dir for the given collection.
func Open(dir, collection string) (*Store, error) {
	if dir == "" {
		dir = "librarian_store"
	}
	if collection == "" {
		collection = "book_summaries"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	db, err := sql.Open("sqlite3", filepath.Join(dir, "vectors.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &Store{db: db, collection: collection}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		collection TEXT NOT NULL,
		title TEXT NOT NULL,
		document TEXT NOT NULL,
		embedding BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Rebuild deletes every record in the collection and inserts the given ones
// in a single transaction.
func (s *Store) Rebuild(ctx context.Context, records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE collection = ?`, s.collection); err != nil {
		return fmt.Errorf("clearing collection: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (id, collection, title, document, embedding)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		embedding, err := json.Marshal(r.Embedding)
		if err != nil {
			return fmt.Errorf("encoding embedding: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, r.ID, s.collection, r.Title, r.Document, embedding); err != nil {
			return fmt.Errorf("inserting record %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// Query scans the collection, computes cosine distances and returns up to k
// nearest records. Brute force is fine at catalog scale.
func (s *Store) Query(ctx context.Context, vector []float64, k int) ([]domain.Neighbor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, document, embedding FROM records WHERE collection = ?
	`, s.collection)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var neighbors []domain.Neighbor
	for rows.Next() {
		var n domain.Neighbor
		var blob []byte
		if err := rows.Scan(&n.ID, &n.Title, &n.Document, &blob); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		var embedding []float64
		if err := json.Unmarshal(blob, &embedding); err != nil {
			continue // skip corrupted embeddings
		}
		n.Distance = vectorstore.CosineDistance(vector, embedding)
		neighbors = append(neighbors, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vectorstore.NearestFirst(neighbors, k), nil
}

// Count returns the number of records in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE collection = ?`, s.collection).Scan(&count)
	return count, err
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
