package postgres

import (
	"context"
	"time"

	"sheetchat/internal/errors"
	"sheetchat/ports"

	"github.com/jmoiron/sqlx"
)

// LLMUsageRepositoryImpl implements LLMUsageRepository for PostgreSQL
type LLMUsageRepositoryImpl struct {
	db *sqlx.DB
}

// NewLLMUsageRepository creates a new PostgreSQL LLM usage repository
func NewLLMUsageRepository(db *sqlx.DB) ports.LLMUsageRepository {
	return &LLMUsageRepositoryImpl{db: db}
}

// RecordUsage records LLM usage for an API call
func (r *LLMUsageRepositoryImpl) RecordUsage(ctx context.Context, usage *ports.UsageRecord) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO llm_usage (
			session_id, provider, model, prompt_tokens,
			completion_tokens, total_tokens, failed, created_at
		) VALUES (
			:session_id, :provider, :model, :prompt_tokens,
			:completion_tokens, :total_tokens, :failed, :created_at
		)
	`, usage)
	if err != nil {
		return errors.DatabaseError("failed to insert llm usage", err)
	}
	return nil
}

// Totals aggregates usage recorded since the given time
func (r *LLMUsageRepositoryImpl) Totals(ctx context.Context, since time.Time) (*ports.UsageTotals, error) {
	var totals ports.UsageTotals
	err := r.db.GetContext(ctx, &totals, `
		SELECT
			COUNT(*) AS calls,
			COUNT(*) FILTER (WHERE failed) AS failed_calls,
			COALESCE(SUM(prompt_tokens), 0) AS prompt_tokens,
			COALESCE(SUM(completion_tokens), 0) AS completion_tokens,
			COALESCE(SUM(total_tokens), 0) AS total_tokens
		FROM llm_usage
		WHERE created_at >= $1
	`, since)
	if err != nil {
		return nil, errors.DatabaseError("failed to aggregate llm usage", err)
	}
	return &totals, nil
}
