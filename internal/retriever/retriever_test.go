package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarian/internal/domain"
)

type fakeEmbedder struct {
	vector []float64
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	f.calls++
	return f.vector, f.err
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, f.err
}

type fakeStore struct {
	neighbors []domain.Neighbor
	err       error
	gotK      int
}

func (f *fakeStore) Rebuild(ctx context.Context, records []domain.Record) error { return nil }

func (f *fakeStore) Query(ctx context.Context, vector []float64, k int) ([]domain.Neighbor, error) {
	f.gotK = k
	return f.neighbors, f.err
}

func TestSearchScoresAndSnippets(t *testing.T) {
	store := &fakeStore{neighbors: []domain.Neighbor{
		{Title: "Dune", Document: "A desert planet saga.\nSecond line.", Distance: 0},
		{Title: "1984", Document: "Surveillance state.", Distance: 1},
	}}
	r := New(&fakeEmbedder{vector: []float64{1, 0}}, store)

	hits, err := r.Search(context.Background(), "deserts", 3)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 3, store.gotK)

	assert.Equal(t, "Dune", hits[0].Title)
	assert.Equal(t, 1.0, hits[0].Score)
	assert.Equal(t, "A desert planet saga.", hits[0].Snippet)

	assert.Equal(t, "1984", hits[1].Title)
	assert.Equal(t, 0.5, hits[1].Score)
	assert.Equal(t, "Surveillance state.", hits[1].Snippet)
}

func TestScoreMonotonicity(t *testing.T) {
	distances := []float64{0, 0.001, 0.5, 1, 2, 10, 1000}
	for i := 1; i < len(distances); i++ {
		assert.Greater(t, Score(distances[i-1]), Score(distances[i]))
	}
	assert.Equal(t, 1.0, Score(0))
	for _, d := range distances {
		s := Score(d)
		assert.Greater(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestSearchEmbedderErrorPropagates(t *testing.T) {
	r := New(&fakeEmbedder{err: errors.New("boom")}, &fakeStore{})
	_, err := r.Search(context.Background(), "q", 3)
	require.Error(t, err)
}

func TestSearchStoreErrorPropagates(t *testing.T) {
	r := New(&fakeEmbedder{vector: []float64{1}}, &fakeStore{err: errors.New("boom")})
	_, err := r.Search(context.Background(), "q", 3)
	require.Error(t, err)
}

func TestSearchEmptyStore(t *testing.T) {
	r := New(&fakeEmbedder{vector: []float64{1}}, &fakeStore{})
	hits, err := r.Search(context.Background(), "q", 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
