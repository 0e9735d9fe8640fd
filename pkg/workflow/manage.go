package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ashleytower/voice-email-agent/internal/pkg/logger"
	"github.com/ashleytower/voice-email-agent/pkg/llm"
	"github.com/ashleytower/voice-email-agent/pkg/store"
)

const manageSystemPromptFormat = `Extract the email management action from this request: "%s"

Respond in JSON format:
{
  "action": "label" or "archive",
  "message_id": "extracted message ID if mentioned",
  "label_name": "label name if action is label"
}`

const defaultLabelName = "Important"

type inboxAction struct {
	Action    string `json:"action"`
	MessageID string `json:"message_id"`
	LabelName string `json:"label_name"`
}

// ManageHandler executes label and archive actions against the mailbox. It
// is the one branch that absorbs its own failures: every internal error is
// recorded on the state and replaced by a fixed failure response, because a
// half-applied mailbox mutation must still produce a spoken answer.
type ManageHandler struct {
	llmProvider llm.LLMProvider
	directory   Directory
	mutator     Mutator
	logger      logger.ILogger
}

func NewManageHandler(llmProvider llm.LLMProvider, directory Directory, mutator Mutator, log logger.ILogger) *ManageHandler {
	return &ManageHandler{
		llmProvider: llmProvider,
		directory:   directory,
		mutator:     mutator,
		logger:      log,
	}
}

func (h *ManageHandler) Handle(ctx context.Context, st State) (State, error) {
	raw, err := h.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: fmt.Sprintf(manageSystemPromptFormat, st.UserInput)},
	}, llm.WithTemperature(0.0))
	if err != nil {
		return h.fail(st, "action extraction failed", err), nil
	}

	var action inboxAction
	if err := json.Unmarshal([]byte(extractJSON(raw)), &action); err != nil {
		return h.fail(st, "unparseable action payload", err), nil
	}

	switch action.Action {
	case "label", "archive":
	default:
		st.FinalResponse = unsureInboxResponse
		return st, nil
	}

	messageID := action.MessageID
	if messageID == "" {
		summaries, err := withRetry(ctx, listTimeout, func(ctx context.Context) ([]store.MessageSummary, error) {
			return h.directory.List(ctx, "", 1)
		})
		if err != nil {
			return h.fail(st, "latest message lookup failed", err), nil
		}
		if len(summaries) == 0 {
			return h.fail(st, "no message to act on", fmt.Errorf("mailbox returned no messages")), nil
		}
		messageID = summaries[0].ID
	}

	switch action.Action {
	case "label":
		labelName := action.LabelName
		if labelName == "" {
			labelName = defaultLabelName
		}
		if err := h.mutator.Label(ctx, messageID, labelName); err != nil {
			return h.fail(st, "label action failed", err), nil
		}
		st.FinalResponse = fmt.Sprintf(labeledResponseFormat, labelName)

	case "archive":
		if err := h.mutator.Archive(ctx, messageID); err != nil {
			return h.fail(st, "archive action failed", err), nil
		}
		st.FinalResponse = archivedResponse
	}

	return st, nil
}

func (h *ManageHandler) fail(st State, reason string, err error) State {
	h.logger.Error("ManageHandler", reason, map[string]interface{}{
		"error": err.Error(),
	})
	st.Error = err.Error()
	st.FinalResponse = inboxFailureResponse
	return st
}

// extractJSON slices the outermost brace-delimited object out of a model
// response, tolerating prose or code fences around it. Returns the input
// unchanged when no braces are present so json.Unmarshal reports the error.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}
