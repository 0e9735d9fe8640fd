package workflow

import (
	"context"

	"github.com/ashleytower/voice-email-agent/internal/pkg/logger"
	"github.com/ashleytower/voice-email-agent/pkg/llm"
)

// Handler is one branch of the state machine. It receives the run state by
// value and returns the next state; exactly one handler runs per request.
type Handler interface {
	Handle(ctx context.Context, st State) (State, error)
}

// Engine is the deterministic orchestrator: classify once, route by switch,
// run one branch, done. All collaborators are injected so every branch is
// testable against fakes.
type Engine struct {
	classifier *Classifier
	handlers   map[HandlerName]Handler
	logger     logger.ILogger
}

func NewEngine(llmProvider llm.LLMProvider, retriever Retriever, directory Directory, mutator Mutator, log logger.ILogger) *Engine {
	return &Engine{
		classifier: NewClassifier(llmProvider, log),
		handlers: map[HandlerName]Handler{
			HandlerDraftEmail:   NewDraftHandler(llmProvider, retriever, log),
			HandlerRetrieveInfo: NewRetrieveHandler(llmProvider, retriever, log),
			HandlerManageInbox:  NewManageHandler(llmProvider, directory, mutator, log),
			HandlerReadEmail:    NewReadHandler(directory, log),
			HandlerUnknown:      NewUnknownHandler(),
		},
		logger: log,
	}
}

// Execute runs one request through the full state machine and returns the
// terminal state. Errors from the classifier or a propagating branch surface
// here with the partial state intact.
func (e *Engine) Execute(ctx context.Context, userInput string) (State, error) {
	st := NewState(userInput)

	intent, err := e.classifier.Classify(ctx, st.UserInput)
	if err != nil {
		return st, err
	}
	st.Intent = intent
	st.Stage = StageClassified

	name := Route(st.Intent)
	st.Stage = stageFor(name)
	e.logger.Info("Engine", "Routed request", map[string]interface{}{
		"intent":  string(st.Intent),
		"handler": string(name),
	})

	st, err = e.handlers[name].Handle(ctx, st)
	if err != nil {
		return st, err
	}

	st.Stage = StageDone
	return st, nil
}

// Run is the transport-facing boundary. It never panics and never returns
// an empty string; any failure degrades to the fixed internal failure
// response so the voice loop always has something to speak.
func (e *Engine) Run(ctx context.Context, userInput string) string {
	_, response := e.RunDetailed(ctx, userInput)
	return response
}

// RunDetailed behaves like Run but also reports the classified intent, for
// transports that echo it back to the caller.
func (e *Engine) RunDetailed(ctx context.Context, userInput string) (intent Intent, response string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Engine", "Run panicked", map[string]interface{}{
				"panic": r,
			})
			response = internalFailureResponse
		}
	}()

	st, err := e.Execute(ctx, userInput)
	if err != nil {
		e.logger.Error("Engine", "Run failed", map[string]interface{}{
			"intent": string(st.Intent),
			"stage":  string(st.Stage),
			"error":  err.Error(),
		})
		return st.Intent, internalFailureResponse
	}
	if st.FinalResponse == "" {
		e.logger.Error("Engine", "Branch produced empty response", map[string]interface{}{
			"intent": string(st.Intent),
		})
		return st.Intent, internalFailureResponse
	}
	return st.Intent, st.FinalResponse
}
