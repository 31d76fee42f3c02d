package workspace

import (
	"context"

	"focusos/internal/gcal"
	"focusos/internal/gdrive"
	"focusos/internal/gmail"
	"focusos/internal/service"
)

// MockClients hands the same mock adapters to every user. Err, when set, is
// returned instead, e.g. to simulate a user without a linked account.
type MockClients struct {
	GmailClient    *gmail.MockGmailClient
	CalendarClient *gcal.MockCalendarClient
	DriveClient    *gdrive.MockDriveClient
	Err            error
}

func NewMockClients() *MockClients {
	return &MockClients{
		GmailClient:    gmail.NewMockGmailClient(),
		CalendarClient: gcal.NewMockCalendarClient(),
		DriveClient:    gdrive.NewMockDriveClient(),
	}
}

func (m *MockClients) Gmail(ctx context.Context, userID string) (service.GmailClient, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.GmailClient, nil
}

func (m *MockClients) Calendar(ctx context.Context, userID string) (service.CalendarClient, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.CalendarClient, nil
}

func (m *MockClients) Drive(ctx context.Context, userID string) (service.DriveClient, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.DriveClient, nil
}
