package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"

	"focusos/internal/logger"
	"focusos/internal/model"
	"focusos/internal/repository/memory"
	"focusos/internal/service"
	"focusos/internal/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmailFixture(t *testing.T) (*workspace.MockClients, *model.User, service.EmailService) {
	users := memory.NewInMemoryUserRepository()
	user := model.NewUser("ada@example.com", "Ada Lovelace")
	require.NoError(t, users.Create(context.Background(), user))

	clients := workspace.NewMockClients()
	return clients, user, service.NewEmailService(users, clients, 5*time.Second, logger.NewNop())
}

func TestSendComposesMessage(t *testing.T) {
	clients, user, svc := newEmailFixture(t)

	var raw []byte
	clients.GmailClient.SendFunc = func(ctx context.Context, msg []byte) (string, error) {
		raw = msg
		return "msg-42", nil
	}

	id, err := svc.Send(context.Background(), user.ID, service.SendEmailRequest{
		To:      "Bob <bob@example.com>",
		Subject: "Meeting",
		Body:    "See you at 5.",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-42", id)

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	require.NoError(t, err)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Meeting", subject)

	to, err := mr.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "bob@example.com", to[0].Address)

	from, err := mr.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "ada@example.com", from[0].Address)

	assert.Contains(t, string(raw), "See you at 5.")
}

func TestSendValidatesInput(t *testing.T) {
	clients, user, svc := newEmailFixture(t)
	clients.GmailClient.SendFunc = func(ctx context.Context, msg []byte) (string, error) {
		t.Fatal("send should not be called")
		return "", nil
	}

	cases := []service.SendEmailRequest{
		{To: "bob@example.com", Subject: "Hi"},
		{To: "", Subject: "Hi", Body: "x"},
		{To: "not an address", Subject: "Hi", Body: "x"},
		{To: "bob@example.com", Subject: "Hi\r\nBcc: eve@example.com", Body: "x"},
	}
	for _, req := range cases {
		_, err := svc.Send(context.Background(), user.ID, req)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	}
}

func TestSendPropagatesProviderFailure(t *testing.T) {
	clients, user, svc := newEmailFixture(t)
	clients.GmailClient.SendFunc = func(ctx context.Context, msg []byte) (string, error) {
		return "", errors.New("rate limited")
	}

	_, err := svc.Send(context.Background(), user.ID, service.SendEmailRequest{To: "bob@example.com", Subject: "Hi", Body: "x"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrInvalidInput)
}
