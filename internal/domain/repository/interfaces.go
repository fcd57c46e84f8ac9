package repository

import (
	"card-assist/internal/domain/entity"
	"context"
)

// KnowledgeIndex holds the FAQ corpus vectors. Load replaces any previous
// contents; Nearest returns the single best entry by cosine similarity.
type KnowledgeIndex interface {
	Load(ctx context.Context, entries []entity.FAQEntry, vectors [][]float32) error
	Nearest(ctx context.Context, vector []float32) (*entity.FAQMatch, error)
}

// AccountStore is a keyed account registry with per-key atomic updates.
// Get and Update return entity.ErrAccountNotFound for unknown user ids.
type AccountStore interface {
	Get(ctx context.Context, userID string) (*entity.Account, error)
	Update(ctx context.Context, userID string, fn func(*entity.Account) error) (*entity.Account, error)
	Seed(ctx context.Context, accounts ...*entity.Account) error
}

type TurnLimiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

type AIProvider interface {
	Generate(ctx context.Context, req entity.GenerateRequest) (*entity.AIResponse, error)
}

type Embedder interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}
