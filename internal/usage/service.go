package usage

import (
	"context"
	"sync"
	"time"

	"sheetchat/internal"
	"sheetchat/ports"
)

// Recorder is what the chat session reports completion usage to
type Recorder interface {
	Record(ctx context.Context, sessionID string, usage *ports.UsageData, failed bool)
}

// Service handles LLM usage tracking and persistence
type Service struct {
	repo   ports.LLMUsageRepository
	logger *internal.Logger
	wg     sync.WaitGroup
}

// NewService creates a new usage service
func NewService(repo ports.LLMUsageRepository) *Service {
	return &Service{
		repo:   repo,
		logger: internal.DefaultLogger.With("UsageService"),
	}
}

// Record persists one call's usage in the background. Persistence failures
// are logged and never reach the caller.
func (s *Service) Record(ctx context.Context, sessionID string, usage *ports.UsageData, failed bool) {
	record := &ports.UsageRecord{
		SessionID: sessionID,
		Failed:    failed,
		CreatedAt: time.Now(),
	}
	if usage != nil {
		if usage.PromptTokens < 0 || usage.CompletionTokens < 0 || usage.TotalTokens < 0 {
			s.logger.Error("invalid token counts: %+v", usage)
			return
		}
		record.Provider = usage.Provider
		record.Model = usage.Model
		record.PromptTokens = usage.PromptTokens
		record.CompletionTokens = usage.CompletionTokens
		record.TotalTokens = usage.TotalTokens
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.repo.RecordUsage(writeCtx, record); err != nil {
			s.logger.Error("failed to persist usage for session %s: %v", sessionID, err)
		}
	}()
}

// Totals aggregates usage recorded since the given time
func (s *Service) Totals(ctx context.Context, since time.Time) (*ports.UsageTotals, error) {
	return s.repo.Totals(ctx, since)
}

// Wait blocks until pending writes finish
func (s *Service) Wait() {
	s.wg.Wait()
}
