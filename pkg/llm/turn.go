package llm

// Turn is one prompt/response pair from a prior relay call.
type Turn struct {
	UserPrompt    string `json:"user_prompt"`
	ModelResponse string `json:"model_response"`
}

// ConversationRequest is the body accepted by the generate and nudge
// endpoints. Each tier carries its own history because the two models
// diverge after the first turn.
type ConversationRequest struct {
	SystemPrompt  string `json:"system_prompt"`
	UserPrompt    string `json:"user_prompt"`
	HistoryWeak   []Turn `json:"history_weak"`
	HistoryStrong []Turn `json:"history_strong"`
}

// ErrorResponse is the JSON body returned on failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}
