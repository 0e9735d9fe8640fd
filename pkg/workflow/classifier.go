package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/ashleytower/voice-email-agent/internal/pkg/logger"
	"github.com/ashleytower/voice-email-agent/pkg/llm"
)

const classifierSystemPrompt = `You are an intent classifier for an AI email agent.

Classify the user's request into ONE of these intents:
- DRAFT_EMAIL: User wants to compose, write, or send an email
- RETRIEVE_INFO: User wants to search for information, ask a question, or retrieve knowledge
- MANAGE_INBOX: User wants to label, archive, organize, or manage emails
- READ_EMAIL: User wants to read, listen to, or review specific emails
- UNKNOWN: The request doesn't fit any category

Respond with ONLY the intent name, nothing else.`

// Classifier wraps the completion engine with a fixed instruction set and a
// closed output vocabulary. This is the single place in the system where
// free-text model output decides control flow.
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewClassifier(llmProvider llm.LLMProvider, log logger.ILogger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Classify runs one completion call and normalizes the returned token.
// Provider failures propagate so the caller can decide on retry or abort;
// out-of-vocabulary output does not.
func (c *Classifier) Classify(ctx context.Context, userInput string) (Intent, error) {
	history := []llm.Message{
		{Role: "system", Content: classifierSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("User request: %s", userInput)},
	}

	response, err := c.llmProvider.Chat(ctx, history, llm.WithTemperature(0.0))
	if err != nil {
		return IntentUnknown, fmt.Errorf("intent classification failed: %w", err)
	}

	intent, valid := NormalizeIntent(response)
	if !valid {
		c.logger.Warn("Classifier", "Out-of-vocabulary intent coerced to UNKNOWN", map[string]interface{}{
			"raw": truncate(response, 80),
		})
	}
	return intent, nil
}

// NormalizeIntent coerces a raw model token to a member of the closed intent
// vocabulary. Anything that is not an exact label after whitespace trimming
// (empty, multi-word, hallucinated, wrong case) becomes UNKNOWN.
func NormalizeIntent(raw string) (Intent, bool) {
	switch Intent(strings.TrimSpace(raw)) {
	case IntentDraftEmail:
		return IntentDraftEmail, true
	case IntentRetrieveInfo:
		return IntentRetrieveInfo, true
	case IntentManageInbox:
		return IntentManageInbox, true
	case IntentReadEmail:
		return IntentReadEmail, true
	case IntentUnknown:
		return IntentUnknown, true
	default:
		return IntentUnknown, false
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
