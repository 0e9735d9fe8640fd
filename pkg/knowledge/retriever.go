package knowledge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ashleytower/voice-email-agent/internal/model"
	"github.com/ashleytower/voice-email-agent/internal/pkg/logger"
	"github.com/ashleytower/voice-email-agent/internal/repository/contract"
	"github.com/ashleytower/voice-email-agent/pkg/embedding"
	"github.com/ashleytower/voice-email-agent/pkg/store"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Config encapsulates retrieval parameters
type Config struct {
	Threshold float64
}

// DefaultConfig returns default retrieval configuration
func DefaultConfig() Config {
	return Config{
		Threshold: 0.30,
	}
}

// Retriever performs vector similarity search over the knowledge base.
// It embeds the query and delegates to the pgvector-backed repository.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	repo              contract.KnowledgeRepository
	config            Config
	logger            logger.ILogger
}

func NewRetriever(
	embeddingProvider embedding.EmbeddingProvider,
	repo contract.KnowledgeRepository,
	config Config,
	log logger.ILogger,
) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		repo:              repo,
		config:            config,
		logger:            log,
	}
}

// Search returns up to limit passages ordered by descending similarity.
// Zero matches is a normal outcome and returns an empty slice, not an error.
func (r *Retriever) Search(ctx context.Context, query string, limit int) ([]store.Passage, error) {
	vec, err := r.embeddingProvider.Generate(query)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scored, err := r.repo.SearchSimilarWithScore(ctx, vec, limit, r.config.Threshold)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	r.logger.Debug("Retriever", "Vector search completed", map[string]interface{}{
		"query_len": len(query),
		"results":   len(scored),
	})

	passages := make([]store.Passage, 0, len(scored))
	for _, s := range scored {
		passages = append(passages, store.Passage{
			ID:         s.Document.Id.String(),
			Content:    s.Document.Content,
			Similarity: s.Similarity,
			Metadata:   parseMetadata(s.Document.Metadata),
		})
	}
	return passages, nil
}

// Add embeds the content and stores a new knowledge document.
func (r *Retriever) Add(ctx context.Context, content string, metadata map[string]interface{}) (uuid.UUID, error) {
	vec, err := r.embeddingProvider.Generate(content)
	if err != nil {
		return uuid.Nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	doc := &model.KnowledgeDocument{
		Id:      uuid.New(),
		Content: content,
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return uuid.Nil, fmt.Errorf("marshal metadata: %w", err)
		}
		doc.Metadata = datatypes.JSON(raw)
	}
	v := pgvector.NewVector(vec)
	doc.Embedding = &v

	if err := r.repo.Create(ctx, doc); err != nil {
		return uuid.Nil, err
	}
	return doc.Id, nil
}

// Delete removes a knowledge document by id.
func (r *Retriever) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, id)
}

func parseMetadata(raw datatypes.JSON) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
