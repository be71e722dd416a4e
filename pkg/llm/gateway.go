package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GatewayProvider talks to any OpenAI-compatible chat completion endpoint
// over plain HTTP with bearer auth. Useful for self-hosted or proxied
// models that the vendor SDKs do not cover.
type GatewayProvider struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
	name       string
}

func NewGatewayProvider(endpoint, model, apiKey string) *GatewayProvider {
	return &GatewayProvider{
		endpoint:   endpoint,
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		name:       "gateway",
	}
}

func (c *GatewayProvider) Name() string {
	return c.name
}

func (c *GatewayProvider) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	if c.endpoint == "" || c.model == "" {
		return "", &ProviderError{Provider: c.name, Err: fmt.Errorf("gateway misconfigured")}
	}

	body, err := json.Marshal(map[string]any{
		"model":       c.model,
		"max_tokens":  maxTokens,
		"temperature": temperature,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", &ProviderError{Provider: c.name, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &ProviderError{Provider: c.name, Err: err}
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: c.name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &ProviderError{
			Provider: c.name,
			Err:      fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(detail))),
		}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &ProviderError{Provider: c.name, Err: fmt.Errorf("decode: %w", err)}
	}

	if len(parsed.Choices) == 0 {
		return "", &ProviderError{Provider: c.name, Err: fmt.Errorf("no response choices")}
	}

	return parsed.Choices[0].Message.Content, nil
}
