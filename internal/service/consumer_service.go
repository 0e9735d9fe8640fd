package service

import (
	"context"
	"encoding/json"

	"github.com/ashleytower/voice-email-agent/internal/dto"
	"github.com/ashleytower/voice-email-agent/internal/pkg/logger"
	"github.com/ashleytower/voice-email-agent/internal/repository/contract"
	"github.com/ashleytower/voice-email-agent/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the embed queue: for each queued document id it
// regenerates the embedding from the stored content and writes it back.
// Embedding happens off the request path so document writes stay fast.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	repo              contract.KnowledgeRepository
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	repo contract.KnowledgeRepository,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		repo:              repo,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal embed message", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack invalid messages to prevent infinite retry.
		msg.Ack()
		return
	}

	doc, err := cs.repo.FindByID(ctx, payload.DocumentId)
	if err != nil {
		cs.logger.Error("Consumer", "Failed to load document", map[string]interface{}{
			"document_id": payload.DocumentId,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	if doc == nil {
		// Document deleted before embedding ran.
		msg.Ack()
		return
	}

	vector, err := cs.embeddingProvider.Generate(doc.Content)
	if err != nil {
		cs.logger.Error("Consumer", "Embedding generation failed", map[string]interface{}{
			"document_id": doc.Id,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	if err := cs.repo.UpdateEmbedding(ctx, doc.Id, vector); err != nil {
		cs.logger.Error("Consumer", "Failed to store embedding", map[string]interface{}{
			"document_id": doc.Id,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("Consumer", "Document embedded", map[string]interface{}{
		"document_id": doc.Id,
		"dimensions":  len(vector),
	})
	msg.Ack()
}
