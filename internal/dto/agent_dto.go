package dto

type AgentTextRequest struct {
	Text string `json:"text" validate:"required"`
}

type AgentTextResponse struct {
	Intent   string `json:"intent"`
	Response string `json:"response"`
}
