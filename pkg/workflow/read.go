package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/ashleytower/voice-email-agent/internal/pkg/logger"
	"github.com/ashleytower/voice-email-agent/pkg/store"
)

const (
	unreadQuery     = "is:unread"
	unreadListMax   = 5
	unreadSpokenMax = 3
)

// ReadHandler summarizes recent unread mail into a short spoken-friendly
// listing. No model call is involved; the summary is a pure projection of
// the mailbox listing.
type ReadHandler struct {
	directory Directory
	logger    logger.ILogger
}

func NewReadHandler(directory Directory, log logger.ILogger) *ReadHandler {
	return &ReadHandler{
		directory: directory,
		logger:    log,
	}
}

func (h *ReadHandler) Handle(ctx context.Context, st State) (State, error) {
	summaries, err := withRetry(ctx, listTimeout, func(ctx context.Context) ([]store.MessageSummary, error) {
		return h.directory.List(ctx, unreadQuery, unreadListMax)
	})
	if err != nil {
		return st, fmt.Errorf("unread listing failed: %w", err)
	}

	if len(summaries) == 0 {
		st.FinalResponse = noUnreadResponse
		return st, nil
	}

	if len(summaries) > unreadSpokenMax {
		summaries = summaries[:unreadSpokenMax]
	}

	lines := make([]string, 0, len(summaries))
	for _, s := range summaries {
		lines = append(lines, fmt.Sprintf("From %s: %s", s.From, s.Subject))
	}

	st.FinalResponse = fmt.Sprintf(unreadHeaderFormat, strings.Join(lines, "\n"))
	return st, nil
}
