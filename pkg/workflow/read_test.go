package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/ashleytower/voice-email-agent/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestReadNoUnreadEmails(t *testing.T) {
	directory := &stubDirectory{}
	h := NewReadHandler(directory, nopLogger{})

	st, err := h.Handle(context.Background(), NewState("read my emails"))

	assert.NoError(t, err)
	assert.Equal(t, noUnreadResponse, st.FinalResponse)
	assert.Equal(t, "is:unread", directory.lastQuery)
	assert.Equal(t, 5, directory.lastMax)
}

func TestReadSummarizesFirstThree(t *testing.T) {
	directory := &stubDirectory{summaries: []store.MessageSummary{
		{ID: "1", From: "alice@example.com", Subject: "Standup"},
		{ID: "2", From: "bob@example.com", Subject: "Invoice"},
		{ID: "3", From: "carol@example.com", Subject: "Lunch"},
		{ID: "4", From: "dan@example.com", Subject: "Ignored"},
		{ID: "5", From: "eve@example.com", Subject: "Ignored too"},
	}}
	h := NewReadHandler(directory, nopLogger{})

	st, err := h.Handle(context.Background(), NewState("read my emails"))

	assert.NoError(t, err)
	want := "Here are your recent unread emails:\n\n" +
		"From alice@example.com: Standup\n" +
		"From bob@example.com: Invoice\n" +
		"From carol@example.com: Lunch"
	assert.Equal(t, want, st.FinalResponse)
	assert.NotContains(t, st.FinalResponse, "dan@example.com")
}

func TestReadSingleUnread(t *testing.T) {
	directory := &stubDirectory{summaries: []store.MessageSummary{
		{ID: "1", From: "alice@example.com", Subject: "Standup"},
	}}
	h := NewReadHandler(directory, nopLogger{})

	st, err := h.Handle(context.Background(), NewState("read my emails"))

	assert.NoError(t, err)
	assert.Equal(t, "Here are your recent unread emails:\n\nFrom alice@example.com: Standup", st.FinalResponse)
}

func TestReadListingErrorPropagates(t *testing.T) {
	directory := &stubDirectory{err: errors.New("gmail down")}
	h := NewReadHandler(directory, nopLogger{})

	_, err := h.Handle(context.Background(), NewState("read my emails"))

	assert.Error(t, err)
	assert.Equal(t, 2, directory.calls)
}
