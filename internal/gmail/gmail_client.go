package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"focusos/internal/logger"
	"focusos/internal/service"
)

const (
	user        = "me" // Use 'me' to refer to the authenticated user
	unreadQuery = "is:unread"
	headerSubj  = "Subject"
	headerFrom  = "From"
	msgFormat   = "full"
)

type gmailClient struct {
	client *gmail.Service
	logger *logger.Logger
}

// NewGmailClient wraps an already authorized HTTP client. Extra options are applied after it.
func NewGmailClient(ctx context.Context, httpClient *http.Client, logger *logger.Logger, opts ...option.ClientOption) (service.GmailClient, error) {
	gmailService, err := gmail.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &gmailClient{
		client: gmailService,
		logger: logger,
	}, nil
}

func (g *gmailClient) ListUnread(ctx context.Context, maxResults int64) ([]service.MessageRef, error) {
	list, err := g.client.Users.Messages.List(user).Q(unreadQuery).MaxResults(maxResults).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list unread messages: %w", err)
	}

	refs := make([]service.MessageRef, 0, len(list.Messages))
	for _, msg := range list.Messages {
		refs = append(refs, service.MessageRef{ID: msg.Id, ThreadID: msg.ThreadId})
	}

	g.logger.Debugf("Listed %d unread messages", len(refs))
	return refs, nil
}

func (g *gmailClient) GetMessage(ctx context.Context, id string) (*service.GmailMessage, error) {
	message, err := g.client.Users.Messages.Get(user, id).Format(msgFormat).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	raw, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message %s: %w", id, err)
	}

	out := &service.GmailMessage{
		ID:           message.Id,
		ThreadID:     message.ThreadId,
		Snippet:      message.Snippet,
		InternalDate: message.InternalDate,
		RawJSON:      string(raw),
	}
	if message.Payload != nil {
		for _, header := range message.Payload.Headers {
			switch header.Name {
			case headerSubj:
				out.Subject = header.Value
			case headerFrom:
				out.From = header.Value
			}
		}
	}
	return out, nil
}

func (g *gmailClient) Send(ctx context.Context, raw []byte) (string, error) {
	msg := &gmail.Message{Raw: base64.RawURLEncoding.EncodeToString(raw)}

	sent, err := g.client.Users.Messages.Send(user, msg).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return sent.Id, nil
}
