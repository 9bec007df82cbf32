package providers

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"github.com/admitdesk/admitdesk/internal/engine"
)

// OpenAIClassifier implements engine.IntentClassifier against any
// OpenAI-compatible chat-completions API. Groq, OpenAI itself, and local
// servers (Ollama, LM Studio) all speak this protocol; only the base URL and
// key differ.
type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

// NewOpenAIClassifier creates a classifier. baseURL may be empty for the
// default OpenAI endpoint.
func NewOpenAIClassifier(apiKey, model, baseURL string) *OpenAIClassifier {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIClassifier{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Classify implements engine.IntentClassifier.
func (c *OpenAIClassifier) Classify(ctx context.Context, query string, cc engine.ClassifierContext) (string, error) {
	temperature := float32(classifierTemperature)
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: &temperature,
		MaxTokens:   16,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifierSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(query, cc)},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("classification request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from classifier")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
