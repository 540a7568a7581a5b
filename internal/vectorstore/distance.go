// Package vectorstore holds helpers shared by the vector store implementations.
package vectorstore

import (
	"math"
	"sort"

	"librarian/internal/domain"
)

// CosineDistance returns 1 - cosine similarity. Mismatched or zero-norm
// vectors get the maximum distance of 1.
func CosineDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// NearestFirst sorts neighbors by ascending distance (stable, so equal
// distances keep insertion order) and truncates to k.
func NearestFirst(neighbors []domain.Neighbor, k int) []domain.Neighbor {
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})
	if k > 0 && len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}
