package ports

import (
	"context"

	"sheetchat/domain/chat"
)

// UsageData represents raw usage data from LLM provider APIs
type UsageData struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
	Provider         string `json:"provider"`
}

// CompletionRequest is one chat-completion call
type CompletionRequest struct {
	Model       string
	Messages    []chat.Message
	MaxTokens   int
	Temperature float64
}

// CompletionResponse carries the first choice's text and token usage
type CompletionResponse struct {
	Content string
	Usage   *UsageData
}

// CompletionClient is the hosted completion service
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
