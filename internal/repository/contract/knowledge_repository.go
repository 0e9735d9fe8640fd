package contract

import (
	"context"

	"github.com/ashleytower/voice-email-agent/internal/model"

	"github.com/google/uuid"
)

// ScoredDocument wraps a KnowledgeDocument with its similarity score
type ScoredDocument struct {
	Document   *model.KnowledgeDocument
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type KnowledgeRepository interface {
	Create(ctx context.Context, doc *model.KnowledgeDocument) error
	CreateBulk(ctx context.Context, docs []*model.KnowledgeDocument) error
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.KnowledgeDocument, error)
	List(ctx context.Context, limit, offset int) ([]*model.KnowledgeDocument, error)
	Count(ctx context.Context) (int64, error)
	// SearchSimilarWithScore returns documents with their similarity scores,
	// descending, filtered by threshold. An empty result is not an error.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredDocument, error)
}
