package workflow

import (
	"context"
	"fmt"

	"github.com/ashleytower/voice-email-agent/internal/pkg/logger"
	"github.com/ashleytower/voice-email-agent/pkg/llm"
	"github.com/ashleytower/voice-email-agent/pkg/store"
)

const retrieveSystemPromptFormat = `You are a helpful assistant with access to the company knowledge base.

User question: %s

Relevant information from knowledge base:
%s

Provide a clear, concise answer to the user's question based on this information.`

const retrieveSearchLimit = 5

// RetrieveHandler answers questions grounded in the knowledge base. When the
// search comes back empty it answers with the fixed no-information response
// and never calls the model, so an empty knowledge base cannot produce a
// hallucinated answer.
type RetrieveHandler struct {
	llmProvider llm.LLMProvider
	retriever   Retriever
	logger      logger.ILogger
}

func NewRetrieveHandler(llmProvider llm.LLMProvider, retriever Retriever, log logger.ILogger) *RetrieveHandler {
	return &RetrieveHandler{
		llmProvider: llmProvider,
		retriever:   retriever,
		logger:      log,
	}
}

func (h *RetrieveHandler) Handle(ctx context.Context, st State) (State, error) {
	passages, err := withRetry(ctx, searchTimeout, func(ctx context.Context) ([]store.Passage, error) {
		return h.retriever.Search(ctx, st.UserInput, retrieveSearchLimit)
	})
	if err != nil {
		return st, fmt.Errorf("knowledge search failed: %w", err)
	}

	if len(passages) == 0 {
		st.FinalResponse = noRelevantInfoResponse
		return st, nil
	}

	h.logger.Debug("RetrieveHandler", "Synthesizing answer from passages", map[string]interface{}{
		"passages": len(passages),
	})

	prompt := fmt.Sprintf(retrieveSystemPromptFormat, st.UserInput, joinPassages(passages, "- "))
	answer, err := h.llmProvider.Chat(ctx, []llm.Message{{Role: "system", Content: prompt}})
	if err != nil {
		return st, fmt.Errorf("answer synthesis failed: %w", err)
	}

	st.FinalResponse = answer
	return st, nil
}
