package workflow

// HandlerName identifies one of the five branch handlers.
type HandlerName string

const (
	HandlerDraftEmail   HandlerName = "draft_email"
	HandlerRetrieveInfo HandlerName = "retrieve_info"
	HandlerManageInbox  HandlerName = "manage_inbox"
	HandlerReadEmail    HandlerName = "read_email"
	HandlerUnknown      HandlerName = "handle_unknown"
)

// Route maps a classified intent to its branch handler. The mapping is total:
// every intent value, including ones that should never occur at runtime,
// resolves to a handler. No side effects, no external calls.
func Route(intent Intent) HandlerName {
	switch intent {
	case IntentDraftEmail:
		return HandlerDraftEmail
	case IntentRetrieveInfo:
		return HandlerRetrieveInfo
	case IntentManageInbox:
		return HandlerManageInbox
	case IntentReadEmail:
		return HandlerReadEmail
	default:
		return HandlerUnknown
	}
}

// stageFor maps a handler to the state-machine stage it runs under.
func stageFor(name HandlerName) Stage {
	switch name {
	case HandlerDraftEmail:
		return StageDrafting
	case HandlerRetrieveInfo:
		return StageRetrieving
	case HandlerManageInbox:
		return StageManaging
	case HandlerReadEmail:
		return StageReading
	default:
		return StageUnknownHandling
	}
}
