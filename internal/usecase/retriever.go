package usecase

import (
	"card-assist/internal/domain/entity"
	"card-assist/internal/domain/repository"
	logx "card-assist/pkg/logger"
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
)

// corpusEmbedConcurrency bounds parallel embedding calls at startup.
const corpusEmbedConcurrency = 4

// Retriever finds the FAQ entry closest to a query. The corpus is embedded
// once at construction; afterwards it is read-only and safe to share.
type Retriever struct {
	embedder repository.Embedder
	index    repository.KnowledgeIndex
	size     int
}

func NewRetriever(ctx context.Context, corpus []entity.FAQEntry, embedder repository.Embedder, index repository.KnowledgeIndex) (*Retriever, error) {
	if len(corpus) == 0 {
		return nil, entity.ErrEmptyCorpus
	}

	start := time.Now()
	vectors := make([][]float32, len(corpus))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(corpusEmbedConcurrency)

	for i, faq := range corpus {
		g.Go(func() error {
			vec, err := embedder.CreateEmbedding(gCtx, faq.Text())
			if err != nil {
				return fmt.Errorf("embedding faq %d: %w", i, err)
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) == 0 || len(v) != dim {
			return nil, fmt.Errorf("%w: faq %d has %d, faq 0 has %d", entity.ErrDimensionMismatch, i, len(v), dim)
		}
		if err := checkFinite(v); err != nil {
			return nil, fmt.Errorf("faq %d: %w", i, err)
		}
	}

	if err := index.Load(ctx, corpus, vectors); err != nil {
		return nil, fmt.Errorf("loading knowledge index: %w", err)
	}

	logx.Info().
		Int("entries", len(corpus)).
		Int("dim", dim).
		Dur("took", time.Since(start)).
		Msg("Knowledge base embedded")

	return &Retriever{embedder: embedder, index: index, size: len(corpus)}, nil
}

// Size is the number of corpus entries.
func (r *Retriever) Size() int {
	return r.size
}

// Retrieve returns the best matching entry and its cosine score. It always
// returns an entry; the caller decides whether the score is good enough.
func (r *Retriever) Retrieve(ctx context.Context, query string) (*entity.FAQMatch, error) {
	vec, err := r.embedder.CreateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if err := checkFinite(vec); err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	match, err := r.index.Nearest(ctx, vec)
	if err != nil {
		return nil, fmt.Errorf("knowledge lookup: %w", err)
	}
	return match, nil
}

func checkFinite(v []float32) error {
	for i, x := range v {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return fmt.Errorf("%w: component %d is %v", entity.ErrNonFiniteVector, i, x)
		}
	}
	return nil
}
