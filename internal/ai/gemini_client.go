package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"focusos/internal/logger"
)

type geminiClient struct {
	client *genai.Client
	model  string
	logger *logger.Logger
}

func newGeminiClient(ctx context.Context, apiKey, model string, logger *logger.Logger) (*geminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &geminiClient{client: client, model: model, logger: logger}, nil
}

func (g *geminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	return text, nil
}
