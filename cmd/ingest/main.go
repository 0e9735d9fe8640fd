package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/ashleytower/voice-email-agent/internal/config"
	"github.com/ashleytower/voice-email-agent/internal/model"
	"github.com/ashleytower/voice-email-agent/internal/repository/implementation"
	"github.com/ashleytower/voice-email-agent/pkg/database"
	"github.com/ashleytower/voice-email-agent/pkg/embedding"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// ingestDocument is one entry of the ingestion corpus file.
type ingestDocument struct {
	Title    string                 `json:"title"`
	Content  string                 `json:"content"`
	DocType  string                 `json:"doc_type"`
	Category string                 `json:"category"`
	Metadata map[string]interface{} `json:"metadata"`
}

func main() {
	jsonPath := flag.String("json", "", "path to a JSON file with an array of documents")
	flag.Parse()

	if *jsonPath == "" {
		log.Fatal("Error: -json <file> is required")
	}

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}
	if cfg.OpenAI.APIKey == "" {
		log.Fatal("Error: OPENAI_API_KEY is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	repo := implementation.NewKnowledgeRepository(db)
	provider := embedding.NewOpenAIProvider(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel)

	raw, err := os.ReadFile(*jsonPath)
	if err != nil {
		log.Fatalf("Error: Failed to read %s: %v", *jsonPath, err)
	}

	var docs []ingestDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		log.Fatalf("Error: Failed to parse %s: %v", *jsonPath, err)
	}

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	ctx := context.Background()
	ingested, skipped, failed := 0, 0, 0

	for _, doc := range docs {
		if doc.Content == "" {
			yellow.Printf("⚠️  Skipping empty document: %s\n", titleOrUntitled(doc.Title))
			skipped++
			continue
		}

		vec, err := provider.Generate(doc.Content)
		if err != nil {
			red.Printf("❌ Embedding failed for %s: %v\n", titleOrUntitled(doc.Title), err)
			failed++
			continue
		}

		metadata := doc.Metadata
		if metadata == nil {
			metadata = map[string]interface{}{}
		}
		if doc.Title != "" {
			metadata["title"] = doc.Title
		}
		if doc.DocType != "" {
			metadata["doc_type"] = doc.DocType
		}
		if doc.Category != "" {
			metadata["category"] = doc.Category
		}
		metaJSON, err := json.Marshal(metadata)
		if err != nil {
			red.Printf("❌ Bad metadata for %s: %v\n", titleOrUntitled(doc.Title), err)
			failed++
			continue
		}

		v := pgvector.NewVector(vec)
		record := &model.KnowledgeDocument{
			Id:        uuid.New(),
			Content:   doc.Content,
			Embedding: &v,
			Metadata:  datatypes.JSON(metaJSON),
			CreatedAt: time.Now(),
		}
		if err := repo.Create(ctx, record); err != nil {
			red.Printf("❌ Error ingesting %s: %v\n", titleOrUntitled(doc.Title), err)
			failed++
			continue
		}

		green.Printf("✅ Ingested: %s (%s)\n", titleOrUntitled(doc.Title), doc.DocType)
		ingested++
	}

	green.Printf("\nDone: %d ingested, %d skipped, %d failed\n", ingested, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func titleOrUntitled(title string) string {
	if title == "" {
		return "Untitled"
	}
	return title
}
