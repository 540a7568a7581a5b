// Package ingest rebuilds the vector index from catalog entries.
package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"librarian/internal/domain"
)

// Rebuild embeds every entry and replaces the store's content with one record
// per entry. Record ids are regenerated on every run and carry no meaning.
func Rebuild(ctx context.Context, embedder domain.Embedder, store domain.VectorStore, entries []domain.CatalogEntry) (int, error) {
	if len(entries) == 0 {
		return 0, fmt.Errorf("no catalog entries to ingest")
	}
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Content
	}
	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding catalog: %w", err)
	}
	records := make([]domain.Record, len(entries))
	for i, e := range entries {
		records[i] = domain.Record{
			ID:        uuid.NewString(),
			Embedding: vectors[i],
			Title:     e.Title,
			Document:  e.Content,
		}
	}
	if err := store.Rebuild(ctx, records); err != nil {
		return 0, fmt.Errorf("rebuilding store: %w", err)
	}
	return len(records), nil
}
