package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/ashleytower/voice-email-agent/pkg/store"

	"github.com/stretchr/testify/assert"
)

func newManageHandler(llmStub *stubLLM, directory *stubDirectory, mutator *stubMutator) *ManageHandler {
	if directory == nil {
		directory = &stubDirectory{}
	}
	if mutator == nil {
		mutator = &stubMutator{}
	}
	return NewManageHandler(llmStub, directory, mutator, nopLogger{})
}

func TestManageLabelWithExplicitID(t *testing.T) {
	llmStub := &stubLLM{responses: []string{`{"action": "label", "message_id": "msg-42", "label_name": "Receipts"}`}}
	mutator := &stubMutator{}
	h := newManageHandler(llmStub, nil, mutator)

	st, err := h.Handle(context.Background(), NewState("label message msg-42 as Receipts"))

	assert.NoError(t, err)
	assert.Equal(t, "I've labeled the email with 'Receipts'.", st.FinalResponse)
	assert.Equal(t, "msg-42", mutator.labeledID)
	assert.Equal(t, "Receipts", mutator.labeledName)
	assert.Empty(t, st.Error)
}

func TestManageLabelDefaultsToImportant(t *testing.T) {
	llmStub := &stubLLM{responses: []string{`{"action": "label", "message_id": "msg-1"}`}}
	mutator := &stubMutator{}
	h := newManageHandler(llmStub, nil, mutator)

	st, err := h.Handle(context.Background(), NewState("label that email"))

	assert.NoError(t, err)
	assert.Equal(t, "I've labeled the email with 'Important'.", st.FinalResponse)
	assert.Equal(t, "Important", mutator.labeledName)
}

func TestManageArchiveResolvesLatestMessage(t *testing.T) {
	llmStub := &stubLLM{responses: []string{`{"action": "archive"}`}}
	directory := &stubDirectory{summaries: []store.MessageSummary{
		{ID: "latest-1", From: "a@example.com", Subject: "Newest"},
	}}
	mutator := &stubMutator{}
	h := newManageHandler(llmStub, directory, mutator)

	st, err := h.Handle(context.Background(), NewState("archive the latest email"))

	assert.NoError(t, err)
	assert.Equal(t, archivedResponse, st.FinalResponse)
	assert.Equal(t, "latest-1", mutator.archivedID)
	assert.Equal(t, 1, directory.lastMax)
}

func TestManageNoMessagesToActOn(t *testing.T) {
	llmStub := &stubLLM{responses: []string{`{"action": "archive"}`}}
	h := newManageHandler(llmStub, &stubDirectory{}, nil)

	st, err := h.Handle(context.Background(), NewState("archive the latest email"))

	assert.NoError(t, err)
	assert.Equal(t, inboxFailureResponse, st.FinalResponse)
	assert.NotEmpty(t, st.Error)
}

func TestManageMalformedExtractionDegrades(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json at all", "just archive it yourself"},
		{"truncated object", `{"action": "arch`},
		{"wrong shape", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llmStub := &stubLLM{responses: []string{tt.response}}
			h := newManageHandler(llmStub, nil, nil)

			st, err := h.Handle(context.Background(), NewState("do inbox things"))

			assert.NoError(t, err)
			assert.Equal(t, inboxFailureResponse, st.FinalResponse)
			assert.NotEmpty(t, st.Error)
		})
	}
}

func TestManageUnsupportedAction(t *testing.T) {
	llmStub := &stubLLM{responses: []string{`{"action": "delete", "message_id": "msg-1"}`}}
	h := newManageHandler(llmStub, nil, nil)

	st, err := h.Handle(context.Background(), NewState("delete that email"))

	assert.NoError(t, err)
	assert.Equal(t, unsureInboxResponse, st.FinalResponse)
	assert.Empty(t, st.Error)
}

func TestManageMutatorFailureDegrades(t *testing.T) {
	llmStub := &stubLLM{responses: []string{`{"action": "archive", "message_id": "msg-9"}`}}
	mutator := &stubMutator{archiveErr: errors.New("gmail 503")}
	h := newManageHandler(llmStub, nil, mutator)

	st, err := h.Handle(context.Background(), NewState("archive msg-9"))

	assert.NoError(t, err)
	assert.Equal(t, inboxFailureResponse, st.FinalResponse)
	assert.Equal(t, "gmail 503", st.Error)
}

func TestExtractJSONToleratesFencedOutput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"action": "label"}`, `{"action": "label"}`},
		{"code fence", "```json\n{\"action\": \"label\"}\n```", `{"action": "label"}`},
		{"leading prose", `Sure! {"action": "archive"}`, `{"action": "archive"}`},
		{"no braces", "no json here", "no json here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}
