package usage

import (
	"context"
	"sync"
	"time"

	"sheetchat/ports"
)

// DefaultMemoryRecords is how many individual records the in-memory ledger retains
const DefaultMemoryRecords = 10000

// MemoryRepository keeps usage records in process; the default when no database is configured.
// Only the newest records are retained. Older ones are folded into running
// totals that still count toward any window starting at or before them.
type MemoryRepository struct {
	mu         sync.RWMutex
	records    []ports.UsageRecord
	maxRecords int
	nextID     int64

	evicted     ports.UsageTotals
	evictedFrom time.Time
}

// NewMemoryRepository creates an empty in-memory usage repository
func NewMemoryRepository() *MemoryRepository {
	return NewMemoryRepositoryWithCapacity(DefaultMemoryRecords)
}

// NewMemoryRepositoryWithCapacity retains at most maxRecords individual records
func NewMemoryRepositoryWithCapacity(maxRecords int) *MemoryRepository {
	if maxRecords <= 0 {
		maxRecords = DefaultMemoryRecords
	}
	return &MemoryRepository{maxRecords: maxRecords}
}

func (r *MemoryRepository) RecordUsage(ctx context.Context, usage *ports.UsageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rec := *usage
	rec.ID = r.nextID
	if len(r.records) >= r.maxRecords {
		r.evict(r.records[0])
		r.records[0] = ports.UsageRecord{}
		r.records = r.records[1:]
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *MemoryRepository) evict(rec ports.UsageRecord) {
	if r.evicted.Calls == 0 || rec.CreatedAt.Before(r.evictedFrom) {
		r.evictedFrom = rec.CreatedAt
	}
	addRecord(&r.evicted, rec)
}

// Totals sums usage created at or after since. A window that starts after
// the oldest evicted record counts retained records only.
func (r *MemoryRepository) Totals(ctx context.Context, since time.Time) (*ports.UsageTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	totals := &ports.UsageTotals{}
	if r.evicted.Calls > 0 && !since.After(r.evictedFrom) {
		*totals = r.evicted
	}
	for _, rec := range r.records {
		if rec.CreatedAt.Before(since) {
			continue
		}
		addRecord(totals, rec)
	}
	return totals, nil
}

// Len reports how many individual records are retained
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

func addRecord(totals *ports.UsageTotals, rec ports.UsageRecord) {
	totals.Calls++
	if rec.Failed {
		totals.FailedCalls++
	}
	totals.PromptTokens += rec.PromptTokens
	totals.CompletionTokens += rec.CompletionTokens
	totals.TotalTokens += rec.TotalTokens
}
