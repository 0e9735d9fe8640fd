package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/ashleytower/voice-email-agent/internal/pkg/logger"
	"github.com/ashleytower/voice-email-agent/pkg/llm"
	"github.com/ashleytower/voice-email-agent/pkg/store"
)

const draftSystemPromptFormat = `You are an email drafting assistant.

User request: %s

Relevant context from knowledge base:
%s

Draft a professional email based on the user's request and the provided context.
Include appropriate subject line and body.`

const draftSearchLimit = 3

// DraftHandler composes an email from the user instruction plus up to three
// knowledge-base passages. An empty retrieval is not an error; the draft is
// then produced from the instruction alone.
type DraftHandler struct {
	llmProvider llm.LLMProvider
	retriever   Retriever
	logger      logger.ILogger
}

func NewDraftHandler(llmProvider llm.LLMProvider, retriever Retriever, log logger.ILogger) *DraftHandler {
	return &DraftHandler{
		llmProvider: llmProvider,
		retriever:   retriever,
		logger:      log,
	}
}

func (h *DraftHandler) Handle(ctx context.Context, st State) (State, error) {
	passages, err := withRetry(ctx, searchTimeout, func(ctx context.Context) ([]store.Passage, error) {
		return h.retriever.Search(ctx, st.UserInput, draftSearchLimit)
	})
	if err != nil {
		return st, fmt.Errorf("draft context retrieval failed: %w", err)
	}

	contextText := joinPassages(passages, "")
	h.logger.Debug("DraftHandler", "Retrieved drafting context", map[string]interface{}{
		"passages": len(passages),
	})

	prompt := fmt.Sprintf(draftSystemPromptFormat, st.UserInput, contextText)
	draft, err := h.llmProvider.Chat(ctx, []llm.Message{{Role: "system", Content: prompt}})
	if err != nil {
		return st, fmt.Errorf("draft generation failed: %w", err)
	}

	st.Draft = draft
	st.FinalResponse = fmt.Sprintf(draftResponseFormat, draft)
	return st, nil
}

// joinPassages renders retrieved passages for prompt inclusion, one per
// block, optionally prefixed.
func joinPassages(passages []store.Passage, prefix string) string {
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		parts = append(parts, prefix+p.Content)
	}
	return strings.Join(parts, "\n\n")
}
