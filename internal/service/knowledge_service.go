package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ashleytower/voice-email-agent/internal/dto"
	"github.com/ashleytower/voice-email-agent/internal/model"
	"github.com/ashleytower/voice-email-agent/internal/repository/contract"
	"github.com/ashleytower/voice-email-agent/pkg/embedding"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	defaultSearchLimit     = 5
	defaultSearchThreshold = 0.30
)

type IKnowledgeService interface {
	Add(ctx context.Context, req *dto.AddDocumentRequest) (*dto.AddDocumentResponse, error)
	Search(ctx context.Context, req *dto.SearchDocumentsRequest) ([]*dto.SearchDocumentResponse, error)
	List(ctx context.Context, limit, offset int) (*dto.ListDocumentsResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// knowledgeService manages the document corpus behind the retrieval branch.
// Documents are stored immediately without an embedding; the embed queue
// fills the vector in asynchronously.
type knowledgeService struct {
	repo              contract.KnowledgeRepository
	publisherService  IPublisherService
	embeddingProvider embedding.EmbeddingProvider
}

func NewKnowledgeService(
	repo contract.KnowledgeRepository,
	publisherService IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
) IKnowledgeService {
	return &knowledgeService{
		repo:              repo,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
	}
}

func (s *knowledgeService) Add(ctx context.Context, req *dto.AddDocumentRequest) (*dto.AddDocumentResponse, error) {
	doc := &model.KnowledgeDocument{
		Id:        uuid.New(),
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if req.Metadata != nil {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, fmt.Errorf("marshal metadata: %w", err)
		}
		doc.Metadata = datatypes.JSON(raw)
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	msgPayload := dto.PublishEmbedDocumentMessage{
		DocumentId: doc.Id,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.AddDocumentResponse{Id: doc.Id}, nil
}

func (s *knowledgeService) Search(ctx context.Context, req *dto.SearchDocumentsRequest) ([]*dto.SearchDocumentResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	vec, err := s.embeddingProvider.Generate(req.Query)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scored, err := s.repo.SearchSimilarWithScore(ctx, vec, limit, defaultSearchThreshold)
	if err != nil {
		return nil, err
	}

	results := make([]*dto.SearchDocumentResponse, 0, len(scored))
	for _, sd := range scored {
		results = append(results, toSearchDocumentResponse(sd.Document, sd.Similarity))
	}
	return results, nil
}

func (s *knowledgeService) List(ctx context.Context, limit, offset int) (*dto.ListDocumentsResponse, error) {
	docs, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SearchDocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, *toSearchDocumentResponse(d, 0))
	}
	return &dto.ListDocumentsResponse{
		Documents: out,
		Total:     total,
	}, nil
}

func (s *knowledgeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func toSearchDocumentResponse(doc *model.KnowledgeDocument, similarity float64) *dto.SearchDocumentResponse {
	var metadata map[string]interface{}
	if len(doc.Metadata) > 0 {
		_ = json.Unmarshal(doc.Metadata, &metadata)
	}
	return &dto.SearchDocumentResponse{
		Id:         doc.Id,
		Content:    doc.Content,
		Similarity: similarity,
		Metadata:   metadata,
		CreatedAt:  doc.CreatedAt,
	}
}
