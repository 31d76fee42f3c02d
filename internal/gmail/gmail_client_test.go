package gmail_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"focusos/internal/gmail"
	"focusos/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestGetMessageExtractsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/users/me/messages/m1"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":           "m1",
			"threadId":     "t1",
			"snippet":      "see you",
			"internalDate": "1709542800000",
			"payload": map[string]interface{}{
				"headers": []map[string]string{
					{"name": "From", "value": "Ana <ana@example.com>"},
					{"name": "Subject", "value": "Lunch"},
				},
			},
		})
	}))
	defer srv.Close()

	client, err := gmail.NewGmailClient(context.Background(), srv.Client(), logger.NewNop(), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	msg, err := client.GetMessage(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "t1", msg.ThreadID)
	assert.Equal(t, "Lunch", msg.Subject)
	assert.Equal(t, "Ana <ana@example.com>", msg.From)
	assert.Equal(t, int64(1709542800000), msg.InternalDate)
}

func TestSendEncodesRawMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Raw string `json:"raw"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		decoded, err := base64.RawURLEncoding.DecodeString(body.Raw)
		require.NoError(t, err)
		assert.Equal(t, "To: a@example.com\r\n\r\nhi", string(decoded))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "sent-1"})
	}))
	defer srv.Close()

	client, err := gmail.NewGmailClient(context.Background(), srv.Client(), logger.NewNop(), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	id, err := client.Send(context.Background(), []byte("To: a@example.com\r\n\r\nhi"))
	require.NoError(t, err)
	assert.Equal(t, "sent-1", id)
}
