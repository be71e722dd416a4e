package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicProvider struct {
	client *anthropic.Client
	model  anthropic.Model
	name   string
}

func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicProvider{
		client: &client,
		model:  anthropic.ModelClaudeHaiku4_5,
		name:   "anthropic",
	}
}

func (c *AnthropicProvider) Name() string {
	return c.name
}

func (c *AnthropicProvider) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})

	if err != nil {
		return "", &ProviderError{Provider: c.name, Err: err}
	}

	if len(resp.Content) == 0 {
		return "", &ProviderError{Provider: c.name, Err: fmt.Errorf("empty response content")}
	}

	return resp.Content[0].Text, nil
}
