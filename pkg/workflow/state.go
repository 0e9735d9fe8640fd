package workflow

// Intent is the closed-vocabulary classification of a user instruction.
type Intent string

const (
	IntentDraftEmail   Intent = "DRAFT_EMAIL"
	IntentRetrieveInfo Intent = "RETRIEVE_INFO"
	IntentManageInbox  Intent = "MANAGE_INBOX"
	IntentReadEmail    Intent = "READ_EMAIL"
	IntentUnknown      Intent = "UNKNOWN"
)

// Stage marks where a run currently is in the state machine.
type Stage string

const (
	StageStart           Stage = "START"
	StageClassified      Stage = "CLASSIFIED"
	StageDrafting        Stage = "DRAFTING"
	StageRetrieving      Stage = "RETRIEVING"
	StageManaging        Stage = "MANAGING"
	StageReading         Stage = "READING"
	StageUnknownHandling Stage = "UNKNOWN_HANDLING"
	StageDone            Stage = "DONE"
)

// State is the record threaded through one workflow run. Each step receives
// the prior state by value and returns the next one, so concurrent runs can
// never alias the same record. Every field except FinalResponse has exactly
// one writer per run.
type State struct {
	// UserInput is the raw instruction text, immutable after creation.
	UserInput string

	// Intent is set exactly once by the classifier.
	Intent Intent

	// Context is an open scratch bag reserved for branch-local data.
	Context map[string]interface{}

	// Draft holds generated email text, written only by the draft branch.
	Draft string

	// FinalResponse is the single user-facing result. Exactly one branch
	// handler writes it; it is non-empty when the run reaches StageDone.
	FinalResponse string

	// Error holds a diagnostic string when a branch caught an internal
	// failure and degraded to a fixed failure response.
	Error string

	Stage Stage
}

// NewState creates the fresh per-run state. Nothing is carried over between
// runs.
func NewState(userInput string) State {
	return State{
		UserInput: userInput,
		Intent:    IntentUnknown,
		Context:   make(map[string]interface{}),
		Stage:     StageStart,
	}
}
