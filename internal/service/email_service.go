package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"focusos/internal/logger"
	"focusos/internal/repository"
)

type emailService struct {
	userRepo repository.UserRepository
	clients  GoogleClients
	timeout  time.Duration
	logger   *logger.Logger
}

func NewEmailService(userRepo repository.UserRepository, clients GoogleClients, timeout time.Duration, logger *logger.Logger) EmailService {
	return &emailService{
		userRepo: userRepo,
		clients:  clients,
		timeout:  timeout,
		logger:   logger,
	}
}

// Send composes a plain-text message from the user and hands it to Gmail.
func (s *emailService) Send(ctx context.Context, userID string, req SendEmailRequest) (string, error) {
	if strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.Subject) == "" || req.Body == "" {
		return "", invalid("missing required fields")
	}
	if strings.ContainsAny(req.Subject, "\r\n") {
		return "", invalid("subject must be a single line")
	}
	to, err := mail.ParseAddressList(req.To)
	if err != nil {
		return "", invalid("recipient: %v", err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	raw, err := composeMessage(&mail.Address{Name: user.Name, Address: user.Email}, to, req.Subject, req.Body)
	if err != nil {
		return "", fmt.Errorf("failed to compose message: %w", err)
	}

	client, err := s.clients.Gmail(ctx, userID)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	id, err := client.Send(callCtx, raw)
	if err != nil {
		return "", upstream("send message", err)
	}

	s.logger.Infow("email sent", "user_id", userID, "message_id", id, "recipients", len(to))
	return id, nil
}

func composeMessage(from *mail.Address, to []*mail.Address, subject, body string) ([]byte, error) {
	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{from})
	h.SetAddressList("To", to)
	h.SetSubject(subject)
	h.SetContentType("text/plain", map[string]string{"charset": "UTF-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
