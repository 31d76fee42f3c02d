package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"focusos/internal/ai"
	"focusos/internal/googleauth"
	"focusos/internal/repository"
	"focusos/internal/service"
	"focusos/internal/vault"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{service.ErrActionNotConfirmed, http.StatusBadRequest, "Action not confirmed"},
		{service.ErrNoBlocksProvided, http.StatusBadRequest, "No blocks provided"},
		{fmt.Errorf("%w: missing required fields", service.ErrInvalidInput), http.StatusBadRequest, "Missing required fields"},
		{service.ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
		{fmt.Errorf("load token: %w", vault.ErrMalformedCiphertext), http.StatusUnauthorized, "Stored Google credentials are unreadable, please reconnect your account"},
		{googleauth.ErrAuthenticationFailed, http.StatusUnauthorized, "Google authorization expired, please reconnect your account"},
		{googleauth.ErrNoLinkedAccount, http.StatusForbidden, "No linked Google account"},
		{repository.ErrNotFound, http.StatusNotFound, "Not found"},
		{fmt.Errorf("%w: decode", ai.ErrLLMOutputInvalid), http.StatusBadGateway, "LLM output invalid"},
		{fmt.Errorf("list: %w", service.ErrUpstreamTimeout), http.StatusGatewayTimeout, "Upstream request timed out"},
		{fmt.Errorf("llm call: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "Upstream request timed out"},
		{errors.New("disk full"), http.StatusInternalServerError, "disk full"},
	}

	for _, tc := range cases {
		status, message := classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.message, message, tc.err.Error())
	}
}
