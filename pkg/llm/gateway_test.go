package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestGatewayComplete(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "a short summary"}},
			},
		})
	}))
	defer srv.Close()

	provider := NewGatewayProvider(srv.URL, "test-model", "secret")
	text, err := provider.Complete(context.Background(), "summarize this", 256, 0.3)

	assert.Equal(t, nil, err)
	assert.Equal(t, "a short summary", text)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "test-model", gotBody["model"])
	assert.Equal(t, float64(256), gotBody["max_tokens"])
}

func TestGatewayComplete_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	provider := NewGatewayProvider(srv.URL, "test-model", "secret")
	_, err := provider.Complete(context.Background(), "summarize this", 256, 0.3)

	assert.NotEqual(t, nil, err)

	provErr, ok := err.(*ProviderError)
	assert.Equal(t, true, ok)
	assert.Equal(t, "gateway", provErr.Provider)
}

func TestGatewayComplete_Misconfigured(t *testing.T) {
	provider := NewGatewayProvider("", "", "")
	_, err := provider.Complete(context.Background(), "summarize this", 256, 0.3)
	assert.NotEqual(t, nil, err)
}
