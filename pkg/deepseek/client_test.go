package deepseek

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-research/memogen/internal/resilience"
)

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}
}

func completionJSON(content string) string {
	resp := ChatCompletionResponse{
		ID:    "cmpl-1",
		Model: "deepseek-chat",
		Choices: []Choice{
			{Index: 0, Message: Message{Role: "assistant", Content: content}, FinishReason: "stop"},
		},
		Usage: Usage{PromptTokens: 120, CompletionTokens: 48, TotalTokens: 168},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestChatCompletion_Success(t *testing.T) {
	t.Parallel()

	var gotReq ChatCompletionRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionJSON("## Deal Summary\ndraft text")))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	resp, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "write the memo"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "deepseek-chat", gotReq.Model)
	require.NotNil(t, gotReq.Temperature)
	assert.InDelta(t, 0.3, *gotReq.Temperature, 1e-9)

	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "## Deal Summary\ndraft text", resp.Choices[0].Message.Content)
	assert.Equal(t, 120, resp.Usage.PromptTokens)
	assert.Equal(t, 48, resp.Usage.CompletionTokens)
}

func TestChatCompletion_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(completionJSON("ok")))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))

	resp, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), attempts.Load())
	assert.Equal(t, "ok", resp.Choices[0].Message.Content)
}

func TestChatCompletion_NoRetryOnClientError(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))

	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Equal(t, int32(1), attempts.Load())
}

func TestChatCompletion_ExhaustsRetries(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))

	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.Error(t, err)
	assert.Equal(t, int32(3), attempts.Load())
	assert.Contains(t, err.Error(), "status 429")
}

func TestChatCompletion_Overrides(t *testing.T) {
	t.Parallel()

	var gotReq ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write([]byte(completionJSON("ok")))
	}))
	defer srv.Close()

	client := NewClient("test-key",
		WithBaseURL(srv.URL),
		WithModel("deepseek-reasoner"),
		WithTemperature(0.7),
		WithMaxTokens(900),
	)

	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "deepseek-reasoner", gotReq.Model)
	require.NotNil(t, gotReq.Temperature)
	assert.InDelta(t, 0.7, *gotReq.Temperature, 1e-9)
	require.NotNil(t, gotReq.MaxTokens)
	assert.Equal(t, 900, *gotReq.MaxTokens)

	// Explicit request values win over client defaults.
	reqTemp := 0.1
	reqMax := 50
	_, err = client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Model:       "deepseek-chat",
		Messages:    []Message{{Role: "user", Content: "hi"}},
		Temperature: &reqTemp,
		MaxTokens:   &reqMax,
	})
	require.NoError(t, err)
	assert.Equal(t, "deepseek-chat", gotReq.Model)
	assert.InDelta(t, 0.1, *gotReq.Temperature, 1e-9)
	assert.Equal(t, 50, *gotReq.MaxTokens)
}
