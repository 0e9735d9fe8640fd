package workflow

import (
	"context"
	"sync"

	"github.com/ashleytower/voice-email-agent/pkg/llm"
	"github.com/ashleytower/voice-email-agent/pkg/store"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// stubLLM replays canned responses in order and records every prompt it saw.
type stubLLM struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (s *stubLLM) Chat(_ context.Context, messages []llm.Message, _ ...llm.Option) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(messages) > 0 {
		s.prompts = append(s.prompts, messages[len(messages)-1].Content)
	}
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", nil
	}
	response := s.responses[0]
	s.responses = s.responses[1:]
	return response, nil
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

type stubRetriever struct {
	passages []store.Passage
	err      error
	calls    int
}

func (s *stubRetriever) Search(_ context.Context, _ string, _ int) ([]store.Passage, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.passages, nil
}

type stubDirectory struct {
	summaries []store.MessageSummary
	err       error
	calls     int
	lastQuery string
	lastMax   int
}

func (s *stubDirectory) List(_ context.Context, query string, max int) ([]store.MessageSummary, error) {
	s.calls++
	s.lastQuery = query
	s.lastMax = max
	if s.err != nil {
		return nil, s.err
	}
	return s.summaries, nil
}

type stubMutator struct {
	labelErr    error
	archiveErr  error
	labeledID   string
	labeledName string
	archivedID  string
}

func (s *stubMutator) Label(_ context.Context, messageID, labelName string) error {
	if s.labelErr != nil {
		return s.labelErr
	}
	s.labeledID = messageID
	s.labeledName = labelName
	return nil
}

func (s *stubMutator) Archive(_ context.Context, messageID string) error {
	if s.archiveErr != nil {
		return s.archiveErr
	}
	s.archivedID = messageID
	return nil
}

func newTestEngine(llmStub *stubLLM, retriever *stubRetriever, directory *stubDirectory, mutator *stubMutator) *Engine {
	if retriever == nil {
		retriever = &stubRetriever{}
	}
	if directory == nil {
		directory = &stubDirectory{}
	}
	if mutator == nil {
		mutator = &stubMutator{}
	}
	return NewEngine(llmStub, retriever, directory, mutator, nopLogger{})
}
