package googleauth

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

// MockProvider is a test double for Provider.
type MockProvider struct {
	AuthCodeURLFunc func(state string) (string, error)
	ExchangeFunc    func(ctx context.Context, code string) (*Identity, error)
	RefreshFunc     func(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

func (m *MockProvider) AuthCodeURL(state string) (string, error) {
	if m.AuthCodeURLFunc != nil {
		return m.AuthCodeURLFunc(state)
	}
	return "https://accounts.example.com/o/oauth2/auth?state=" + state, nil
}

func (m *MockProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	return nil, errors.New("exchange not configured")
}

func (m *MockProvider) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return nil, errors.New("refresh not configured")
}
