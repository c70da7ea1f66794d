package llm

import (
	"context"
	"sync"

	"sheetchat/ports"
)

// MockClient is a canned completion client for tests and offline runs
type MockClient struct {
	Response string // Set this for testing
	Error    error  // Set this to simulate errors

	mu       sync.Mutex
	requests []ports.CompletionRequest
}

func (m *MockClient) Complete(ctx context.Context, req ports.CompletionRequest) (*ports.CompletionResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.Error != nil {
		return nil, m.Error
	}
	content := m.Response
	if content == "" {
		content = "This is an offline reply; no completion service was called."
	}
	return &ports.CompletionResponse{
		Content: content,
		Usage:   &ports.UsageData{Model: req.Model, Provider: "mock"},
	}, nil
}

// Requests returns every request received so far
func (m *MockClient) Requests() []ports.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
