package gmail

import (
	"context"

	"focusos/internal/service"
)

// MockGmailClient is a mock implementation of GmailClient for testing
type MockGmailClient struct {
	ListUnreadFunc func(ctx context.Context, maxResults int64) ([]service.MessageRef, error)
	GetMessageFunc func(ctx context.Context, id string) (*service.GmailMessage, error)
	SendFunc       func(ctx context.Context, raw []byte) (string, error)
}

func NewMockGmailClient() *MockGmailClient {
	return &MockGmailClient{}
}

func (m *MockGmailClient) ListUnread(ctx context.Context, maxResults int64) ([]service.MessageRef, error) {
	if m.ListUnreadFunc != nil {
		return m.ListUnreadFunc(ctx, maxResults)
	}
	return []service.MessageRef{}, nil
}

func (m *MockGmailClient) GetMessage(ctx context.Context, id string) (*service.GmailMessage, error) {
	if m.GetMessageFunc != nil {
		return m.GetMessageFunc(ctx, id)
	}
	return &service.GmailMessage{ID: id}, nil
}

func (m *MockGmailClient) Send(ctx context.Context, raw []byte) (string, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, raw)
	}
	return "sent-id", nil
}
