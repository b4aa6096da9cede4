package chatgpt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
)

func TestProviderInvokeSuccess(t *testing.T) {
	var got ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "gpt-4o-mini-2024-07-18",
			"choices": [{"message": {"role": "assistant", "content": "{\"notes\":[]}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 120, "completion_tokens": 45}
		}`))
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL, time.Second)
	reply, err := provider.Invoke(context.Background(), flowgen.ProviderRequest{
		System:      "system",
		User:        "user",
		Temperature: 0.7,
		MaxTokens:   3500,
	})
	require.NoError(t, err)

	require.Equal(t, "gpt-4o-mini", got.Model)
	require.Equal(t, 3500, got.MaxTokens)
	require.Equal(t, 0.7, got.Temperature)
	require.Len(t, got.Messages, 2)
	require.Equal(t, "system", got.Messages[0].Role)
	require.Equal(t, "user", got.Messages[1].Content)

	require.Equal(t, "gpt-4o-mini-2024-07-18", reply.Model)
	require.Equal(t, `{"notes":[]}`, reply.Text)
	require.Equal(t, 120, reply.TokensIn)
	require.Equal(t, 45, reply.TokensOut)
	require.False(t, reply.Truncated())
}

func TestProviderInvokeLengthFinish(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "{\"notes\":["}, "finish_reason": "length"}]}`))
	}))
	defer server.Close()

	reply, err := newTestProvider(t, server.URL, time.Second).Invoke(context.Background(), flowgen.ProviderRequest{})
	require.NoError(t, err)
	require.True(t, reply.Truncated())
	require.Equal(t, "gpt-4o-mini", reply.Model)
}

func TestProviderInvokeHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	_, err := newTestProvider(t, server.URL, time.Second).Invoke(context.Background(), flowgen.ProviderRequest{})
	var providerErr *flowgen.ProviderError
	require.True(t, errors.As(err, &providerErr))
	require.Equal(t, http.StatusTooManyRequests, providerErr.Status)
	require.False(t, providerErr.Timeout)
	require.Contains(t, providerErr.Message, "rate limited")
}

func TestProviderInvokeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	_, err := newTestProvider(t, server.URL, 50*time.Millisecond).Invoke(context.Background(), flowgen.ProviderRequest{})
	var providerErr *flowgen.ProviderError
	require.True(t, errors.As(err, &providerErr))
	require.True(t, providerErr.Timeout)
}

func TestProviderInvokeIgnoresCallerCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "{}"}, "finish_reason": "stop"}]}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reply, err := newTestProvider(t, server.URL, time.Second).Invoke(ctx, flowgen.ProviderRequest{})
	require.NoError(t, err)
	require.Equal(t, "{}", reply.Text)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(" ", "")
	require.Error(t, err)
}

func newTestProvider(t *testing.T, baseURL string, timeout time.Duration) *Provider {
	t.Helper()
	client, err := NewClient("test-key", baseURL)
	require.NoError(t, err)
	return NewProvider(client, "", timeout)
}
