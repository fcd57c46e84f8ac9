package store

import (
	"card-assist/internal/domain/entity"
	"context"
	"fmt"
	"math"
	"sync"
)

// cosineEpsilon keeps the similarity finite when either vector is all zeros.
const cosineEpsilon = 1e-8

// MemoryIndex scans every cached FAQ vector per query. It is written once at
// startup and read concurrently afterwards.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries []entity.FAQEntry
	vectors [][]float32
	norms   []float64
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

func (m *MemoryIndex) Load(_ context.Context, entries []entity.FAQEntry, vectors [][]float32) error {
	if len(entries) != len(vectors) {
		return fmt.Errorf("memory index: %d entries but %d vectors", len(entries), len(vectors))
	}
	norms := make([]float64, len(vectors))
	for i, v := range vectors {
		norms[i] = norm(v)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = entries
	m.vectors = vectors
	m.norms = norms
	return nil
}

// Nearest returns the entry with the highest cosine similarity. The scan keeps
// the first maximum, so equal scores resolve to the earliest corpus entry.
func (m *MemoryIndex) Nearest(_ context.Context, vector []float32) (*entity.FAQMatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.entries) == 0 {
		return nil, entity.ErrEmptyCorpus
	}

	qNorm := norm(vector)
	best := -1
	bestScore := math.Inf(-1)
	for i, v := range m.vectors {
		if len(v) != len(vector) {
			return nil, fmt.Errorf("%w: query has %d, entry %d has %d", entity.ErrDimensionMismatch, len(vector), i, len(v))
		}
		score := dot(v, vector) / (m.norms[i]*qNorm + cosineEpsilon)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("%w: no comparable score for query", entity.ErrNonFiniteVector)
	}

	return &entity.FAQMatch{
		Entry:    m.entries[best],
		Score:    float32(bestScore),
		Position: best,
	}, nil
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func norm(v []float32) float64 {
	return math.Sqrt(dot(v, v))
}
