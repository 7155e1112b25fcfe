package types

// Message represents a message in a conversation
type Message struct {
	Role    string `json:"role"`    // user, assistant, system
	Content string `json:"content"` // message text
}

// CompletionRequest represents a request to complete text
type CompletionRequest struct {
	Messages    []Message `json:"messages"`    // conversation history
	Temperature float64   `json:"temperature"` // sampling temperature, 0 = deterministic
	MaxTokens   int       `json:"max_tokens"`  // completion cap, 0 = provider default
}

// CompletionResponse represents a completion response
type CompletionResponse struct {
	Content string     `json:"content"` // generated text
	Usage   TokenUsage `json:"usage"`   // token usage
}

// TokenUsage tracks token usage reported by the provider
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`     // input tokens
	CompletionTokens int `json:"completion_tokens"` // output tokens
	TotalTokens      int `json:"total_tokens"`      // total tokens
}
