package client

import (
	"card-assist/internal/domain/entity"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHFChatClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))

		var body struct {
			Model       string  `json:"model"`
			MaxTokens   int     `json:"max_tokens"`
			Temperature float32 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "openai/gpt-oss-20b", body.Model)
		assert.Equal(t, 256, body.MaxTokens)
		assert.InDelta(t, 0.1, body.Temperature, 1e-6)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "be brief", body.Messages[0].Content)
		assert.Equal(t, "user", body.Messages[1].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "openai/gpt-oss-20b",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"type\":\"answer\",\"answer\":\"hi\"}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer srv.Close()

	c := NewHFChatClient(srv.URL, "hf_test", "openai/gpt-oss-20b")
	resp, err := c.Generate(context.Background(), entity.GenerateRequest{
		System:      "be brief",
		Messages:    []entity.Message{{Role: entity.RoleUser, Content: "hello"}},
		MaxTokens:   256,
		Temperature: 0.1,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"answer","answer":"hi"}`, resp.Content)
	assert.Equal(t, 15, resp.TokenCount)
}

func TestHFChatClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	c := NewHFChatClient(srv.URL, "hf_test", "m")
	_, err := c.Generate(context.Background(), entity.GenerateRequest{
		Messages: []entity.Message{{Role: entity.RoleUser, Content: "hello"}},
	})
	assert.Error(t, err)
}

func TestHFChatClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer srv.Close()

	c := NewHFChatClient(srv.URL, "", "m")
	_, err := c.Generate(context.Background(), entity.GenerateRequest{})
	assert.Error(t, err)
}
