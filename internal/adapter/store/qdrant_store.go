package store

import (
	"card-assist/internal/domain/entity"
	logx "card-assist/pkg/logger"
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// tieWindow is how many top hits Nearest inspects to find equal scores.
const tieWindow = 8

// QdrantStore serves the FAQ index from a Qdrant collection. The collection
// is rebuilt on every Load so it always mirrors the corpus file.
type QdrantStore struct {
	client         *qdrant.Client
	collectionName string
}

func NewQdrantStore(client *qdrant.Client, collectionName string) *QdrantStore {
	return &QdrantStore{
		client:         client,
		collectionName: collectionName,
	}
}

func (s *QdrantStore) resetCollection(ctx context.Context, dim uint64) error {
	_, err := s.client.GetCollectionInfo(ctx, s.collectionName)
	if err == nil {
		if err := s.client.DeleteCollection(ctx, s.collectionName); err != nil {
			return fmt.Errorf("failed to drop collection: %w", err)
		}
	} else if st, ok := status.FromError(err); !ok || st.Code() != codes.NotFound {
		return err
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dim,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

func (s *QdrantStore) Load(ctx context.Context, entries []entity.FAQEntry, vectors [][]float32) error {
	if len(entries) == 0 {
		return entity.ErrEmptyCorpus
	}
	if len(entries) != len(vectors) {
		return fmt.Errorf("qdrant index: %d entries but %d vectors", len(entries), len(vectors))
	}
	if err := s.resetCollection(ctx, uint64(len(vectors[0]))); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, len(entries))
	for i, e := range entries {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(i)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"question": e.Question,
				"answer":   e.Answer,
				"position": int64(i),
			}),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert faq points: %w", err)
	}

	logx.Info().
		Str("collection", s.collectionName).
		Int("points", len(points)).
		Msg("Knowledge index loaded into qdrant")
	return nil
}

func (s *QdrantStore) Nearest(ctx context.Context, vector []float32) (*entity.FAQMatch, error) {
	res, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(tieWindow)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant query: %w", err)
	}
	if len(res) == 0 {
		return nil, entity.ErrEmptyCorpus
	}

	// Hits arrive score-descending; among those sharing the top score keep
	// the earliest corpus position.
	best := res[0]
	bestPos := best.Payload["position"].GetIntegerValue()
	for _, hit := range res[1:] {
		if hit.Score < best.Score {
			break
		}
		if pos := hit.Payload["position"].GetIntegerValue(); pos < bestPos {
			best, bestPos = hit, pos
		}
	}

	return &entity.FAQMatch{
		Entry: entity.FAQEntry{
			Question: best.Payload["question"].GetStringValue(),
			Answer:   best.Payload["answer"].GetStringValue(),
		},
		Score:    best.Score,
		Position: int(bestPos),
	}, nil
}
