package ai

import (
	"context"
	"sync"
)

// MockAIClient is a mock implementation of Client for testing
type MockAIClient struct {
	CompleteFunc func(ctx context.Context, prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

func NewMockAIClient() *MockAIClient {
	return &MockAIClient{}
}

// NewMockAIClientWithReply always answers with reply.
func NewMockAIClientWithReply(reply string) *MockAIClient {
	return &MockAIClient{
		CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
			return reply, nil
		},
	}
}

func (m *MockAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	return "{}", nil
}

// Calls returns how many prompts were sent.
func (m *MockAIClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// LastPrompt returns the most recent prompt, or "" if none was sent.
func (m *MockAIClient) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}
