package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIntent(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      Intent
		wantValid bool
	}{
		{"exact draft", "DRAFT_EMAIL", IntentDraftEmail, true},
		{"exact retrieve", "RETRIEVE_INFO", IntentRetrieveInfo, true},
		{"exact manage", "MANAGE_INBOX", IntentManageInbox, true},
		{"exact read", "READ_EMAIL", IntentReadEmail, true},
		{"exact unknown", "UNKNOWN", IntentUnknown, true},
		{"surrounding whitespace", "  READ_EMAIL\n", IntentReadEmail, true},
		{"lowercase", "draft_email", IntentUnknown, false},
		{"empty", "", IntentUnknown, false},
		{"prose around label", "The intent is DRAFT_EMAIL.", IntentUnknown, false},
		{"hallucinated label", "SCHEDULE_MEETING", IntentUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, valid := NormalizeIntent(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantValid, valid)
		})
	}
}

func TestClassifyCoercesOutOfVocabulary(t *testing.T) {
	llmStub := &stubLLM{responses: []string{"COMPOSE_SONG"}}
	c := NewClassifier(llmStub, nopLogger{})

	intent, err := c.Classify(context.Background(), "write me a song")

	assert.NoError(t, err)
	assert.Equal(t, IntentUnknown, intent)
}

func TestClassifyTrimsWhitespace(t *testing.T) {
	llmStub := &stubLLM{responses: []string{" MANAGE_INBOX \n"}}
	c := NewClassifier(llmStub, nopLogger{})

	intent, err := c.Classify(context.Background(), "archive that email")

	assert.NoError(t, err)
	assert.Equal(t, IntentManageInbox, intent)
}

func TestClassifyPropagatesProviderError(t *testing.T) {
	llmStub := &stubLLM{err: errors.New("connection refused")}
	c := NewClassifier(llmStub, nopLogger{})

	_, err := c.Classify(context.Background(), "hello")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "intent classification failed")
}
