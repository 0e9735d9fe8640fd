package dto

import (
	"time"

	"github.com/google/uuid"
)

type AddDocumentRequest struct {
	Content  string                 `json:"content" validate:"required"`
	Metadata map[string]interface{} `json:"metadata"`
}

type AddDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type SearchDocumentsRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=50"`
}

type SearchDocumentResponse struct {
	Id         uuid.UUID              `json:"id"`
	Content    string                 `json:"content"`
	Similarity float64                `json:"similarity"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
}

// PublishEmbedDocumentMessage is the async embed-queue payload. The consumer
// re-reads the document, so only the id travels on the bus.
type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

type ListDocumentsResponse struct {
	Documents []SearchDocumentResponse `json:"documents"`
	Total     int64                    `json:"total"`
}
