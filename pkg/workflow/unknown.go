package workflow

import "context"

// UnknownHandler is the fallback branch for requests outside the agent's
// vocabulary. It cannot fail.
type UnknownHandler struct{}

func NewUnknownHandler() *UnknownHandler {
	return &UnknownHandler{}
}

func (h *UnknownHandler) Handle(_ context.Context, st State) (State, error) {
	st.FinalResponse = unknownResponse
	return st, nil
}
