package gdrive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"focusos/internal/logger"
	"focusos/internal/service"
)

const (
	fileFields     = "id, name, modifiedTime, mimeType"
	exportMIMEType = "text/plain"
	// Drive refuses exports above 10 MB.
	maxExportBytes = 10 << 20
)

type driveClient struct {
	client *drive.Service
	logger *logger.Logger
}

// NewDriveClient wraps an already authorized HTTP client. Extra options are applied after it.
func NewDriveClient(ctx context.Context, httpClient *http.Client, logger *logger.Logger, opts ...option.ClientOption) (service.DriveClient, error) {
	driveService, err := drive.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &driveClient{
		client: driveService,
		logger: logger,
	}, nil
}

func (d *driveClient) GetFile(ctx context.Context, fileID string) (*service.DriveFile, error) {
	file, err := d.client.Files.Get(fileID).Fields(fileFields).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get drive file %s: %w", fileID, err)
	}

	raw, err := json.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("failed to encode drive file %s: %w", fileID, err)
	}

	out := &service.DriveFile{
		ID:       file.Id,
		Name:     file.Name,
		MimeType: file.MimeType,
		RawJSON:  string(raw),
	}
	if file.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, file.ModifiedTime); err == nil {
			out.ModifiedTime = t
		}
	}
	return out, nil
}

func (d *driveClient) ExportText(ctx context.Context, fileID string) (string, error) {
	resp, err := d.client.Files.Export(fileID, exportMIMEType).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("failed to export drive file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxExportBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read export of %s: %w", fileID, err)
	}

	d.logger.Debugf("Exported %d bytes from drive file %s", len(body), fileID)
	return string(body), nil
}
