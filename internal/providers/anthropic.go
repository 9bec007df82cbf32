package providers

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/admitdesk/admitdesk/internal/engine"
)

// AnthropicClassifier implements engine.IntentClassifier against the
// Anthropic Messages API.
type AnthropicClassifier struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClassifier creates a classifier for the given model.
func NewAnthropicClassifier(apiKey, model string) *AnthropicClassifier {
	return &AnthropicClassifier{
		client: anthropic.NewClient(apiKey),
		model:  model,
	}
}

// Classify implements engine.IntentClassifier.
func (c *AnthropicClassifier) Classify(ctx context.Context, query string, cc engine.ClassifierContext) (string, error) {
	temperature := float32(classifierTemperature)
	req := anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		MaxTokens:   16,
		Temperature: &temperature,
		MultiSystem: []anthropic.MessageSystemPart{
			{Type: "text", Text: classifierSystemPrompt},
		},
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(buildUserPrompt(query, cc))},
			},
		},
	}

	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("classification request failed: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text += *block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response from classifier")
	}
	return strings.TrimSpace(text), nil
}
