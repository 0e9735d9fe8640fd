package workflow

// Fixed user-facing responses. The transport layer speaks these verbatim,
// so changing one is a user-visible behavior change.
const (
	draftResponseFormat = "I've drafted an email for you:\n\n%s\n\nWould you like me to send it or make changes?"

	noRelevantInfoResponse = "I couldn't find relevant information in the knowledge base for that question."

	labeledResponseFormat = "I've labeled the email with '%s'."
	archivedResponse      = "I've archived the email."
	unsureInboxResponse   = "I'm not sure how to handle that inbox management request."
	inboxFailureResponse  = "I encountered an error while managing your inbox."

	unreadHeaderFormat = "Here are your recent unread emails:\n\n%s"
	noUnreadResponse   = "You have no unread emails."

	unknownResponse = "I'm not sure how to help with that. Could you rephrase your request?"

	// internalFailureResponse is the catch-all the Run boundary returns when
	// a branch or the classifier failed outright. The transport has no richer
	// error channel, so this must never be empty.
	internalFailureResponse = "Sorry, something went wrong while processing your request. Please try again."
)
