// Package workspace builds per-request Google API clients from a user's stored credentials.
package workspace

import (
	"context"
	"net/http"

	"focusos/internal/gcal"
	"focusos/internal/gdrive"
	"focusos/internal/gmail"
	"focusos/internal/logger"
	"focusos/internal/service"
)

// HTTPClientSource hands out an authorized client for a user, refreshing as needed.
type HTTPClientSource interface {
	HTTPClient(ctx context.Context, userID string) (*http.Client, error)
}

type clients struct {
	source HTTPClientSource
	logger *logger.Logger
}

// NewClients returns a factory that never caches clients between calls.
func NewClients(source HTTPClientSource, logger *logger.Logger) service.GoogleClients {
	return &clients{source: source, logger: logger}
}

func (c *clients) Gmail(ctx context.Context, userID string) (service.GmailClient, error) {
	httpClient, err := c.source.HTTPClient(ctx, userID)
	if err != nil {
		return nil, err
	}
	return gmail.NewGmailClient(ctx, httpClient, c.logger)
}

func (c *clients) Calendar(ctx context.Context, userID string) (service.CalendarClient, error) {
	httpClient, err := c.source.HTTPClient(ctx, userID)
	if err != nil {
		return nil, err
	}
	return gcal.NewCalendarClient(ctx, httpClient, c.logger)
}

func (c *clients) Drive(ctx context.Context, userID string) (service.DriveClient, error) {
	httpClient, err := c.source.HTTPClient(ctx, userID)
	if err != nil {
		return nil, err
	}
	return gdrive.NewDriveClient(ctx, httpClient, c.logger)
}
