package llm

import (
	"context"
	"fmt"
)

// Provider is one external AI completion service. Providers are tried in
// a fixed preference order; a failing provider is skipped, never retried
// within the same call.
type Provider interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
	Name() string
}

// ProviderError wraps any provider failure: unreachable service, missing
// credentials, or a malformed response.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
