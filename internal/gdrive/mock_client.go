package gdrive

import (
	"context"

	"focusos/internal/service"
)

// MockDriveClient is a mock implementation of DriveClient for testing
type MockDriveClient struct {
	GetFileFunc    func(ctx context.Context, fileID string) (*service.DriveFile, error)
	ExportTextFunc func(ctx context.Context, fileID string) (string, error)
}

func NewMockDriveClient() *MockDriveClient {
	return &MockDriveClient{}
}

func (m *MockDriveClient) GetFile(ctx context.Context, fileID string) (*service.DriveFile, error) {
	if m.GetFileFunc != nil {
		return m.GetFileFunc(ctx, fileID)
	}
	return &service.DriveFile{ID: fileID}, nil
}

func (m *MockDriveClient) ExportText(ctx context.Context, fileID string) (string, error) {
	if m.ExportTextFunc != nil {
		return m.ExportTextFunc(ctx, fileID)
	}
	return "", nil
}
