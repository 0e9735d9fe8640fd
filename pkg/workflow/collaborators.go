package workflow

import (
	"context"

	"github.com/ashleytower/voice-email-agent/pkg/store"
)

// Retriever is the knowledge-base search collaborator. Zero matches must
// come back as an empty slice, not an error.
type Retriever interface {
	Search(ctx context.Context, query string, limit int) ([]store.Passage, error)
}

// Directory lists mailbox messages matching a search query,
// most-recent-first.
type Directory interface {
	List(ctx context.Context, query string, max int) ([]store.MessageSummary, error)
}

// Mutator applies label and archive actions to one message.
type Mutator interface {
	Label(ctx context.Context, messageID, labelName string) error
	Archive(ctx context.Context, messageID string) error
}
