// Package retriever turns a free-text question into ranked candidates by
// embedding the query and running a nearest-neighbor search.
package retriever

import (
	"context"
	"fmt"
	"strings"

	"librarian/internal/domain"
)

// Retriever orchestrates the embedder and the vector store.
type Retriever struct {
	embedder domain.Embedder
	store    domain.VectorStore
}

// New creates a Retriever over the given embedder and store.
func New(embedder domain.Embedder, store domain.VectorStore) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Search embeds the query, fetches the topK nearest records and converts each
// distance d into score = 1/(1+d). The snippet is the first line of the
// matched document. Order is whatever the store returned; callers needing a
// deterministic top-1 must sort by score themselves.
func (r *Retriever) Search(ctx context.Context, query string, topK int) ([]domain.SearchHit, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	neighbors, err := r.store.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("querying store: %w", err)
	}
	hits := make([]domain.SearchHit, len(neighbors))
	for i, n := range neighbors {
		hits[i] = domain.SearchHit{
			Title:   n.Title,
			Score:   Score(n.Distance),
			Snippet: firstLine(n.Document),
		}
	}
	return hits, nil
}

// Score maps a distance to a similarity score in (0, 1]: monotonically
// decreasing in distance, 1 at distance zero.
func Score(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "\r")
}
