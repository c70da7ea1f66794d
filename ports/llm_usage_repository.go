package ports

import (
	"context"
	"time"
)

// UsageRecord is one completion call's token accounting. It carries no
// prompt or answer text.
type UsageRecord struct {
	ID               int64     `db:"id" json:"id"`
	SessionID        string    `db:"session_id" json:"session_id"`
	Provider         string    `db:"provider" json:"provider"`
	Model            string    `db:"model" json:"model"`
	PromptTokens     int       `db:"prompt_tokens" json:"prompt_tokens"`
	CompletionTokens int       `db:"completion_tokens" json:"completion_tokens"`
	TotalTokens      int       `db:"total_tokens" json:"total_tokens"`
	Failed           bool      `db:"failed" json:"failed"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// UsageTotals aggregates usage records
type UsageTotals struct {
	Calls            int `db:"calls" json:"calls"`
	FailedCalls      int `db:"failed_calls" json:"failed_calls"`
	PromptTokens     int `db:"prompt_tokens" json:"prompt_tokens"`
	CompletionTokens int `db:"completion_tokens" json:"completion_tokens"`
	TotalTokens      int `db:"total_tokens" json:"total_tokens"`
}

// LLMUsageRepository persists usage records
type LLMUsageRepository interface {
	RecordUsage(ctx context.Context, usage *UsageRecord) error
	Totals(ctx context.Context, since time.Time) (*UsageTotals, error)
}
