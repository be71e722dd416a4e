package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIProvider struct {
	client *openai.Client
	model  openai.ChatModel
	name   string
}

func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		client: &client,
		model:  openai.ChatModelGPT4oMini,
		name:   "openai",
	}
}

func (c *OpenAIProvider) Name() string {
	return c.name
}

func (c *OpenAIProvider) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.model,
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})

	if err != nil {
		return "", &ProviderError{Provider: c.name, Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: c.name, Err: fmt.Errorf("no response choices")}
	}

	return resp.Choices[0].Message.Content, nil
}
