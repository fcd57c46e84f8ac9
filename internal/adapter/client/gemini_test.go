package client

import (
	"card-assist/internal/domain/entity"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestGenAI(t *testing.T, handler http.HandlerFunc) *genai.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	require.NoError(t, err)
	return c
}

func TestGeminiClient_Generate(t *testing.T) {
	c := newTestGenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "gemini-2.5-flash:generateContent"), r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "systemInstruction")
		contents, _ := body["contents"].([]any)
		assert.Len(t, contents, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "Your card is blocked."}]}}],
			"usageMetadata": {"totalTokenCount": 42}
		}`))
	})

	g := NewGeminiClientFromClient(c, "gemini-2.5-flash")
	resp, err := g.Generate(context.Background(), entity.GenerateRequest{
		System: "be brief",
		Messages: []entity.Message{
			{Role: entity.RoleAssistant, Content: "Hello"},
			{Role: entity.RoleUser, Content: "block my card"},
		},
		MaxTokens:   256,
		Temperature: 0.4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Your card is blocked.", resp.Content)
	assert.Equal(t, 42, resp.TokenCount)
}

func TestEmbedder_CreateEmbedding(t *testing.T) {
	c := newTestGenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.Contains(r.URL.Path, "text-embedding-004"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embeddings": [{"values": [0.25, 0.5, 1]}]}`))
	})

	e := NewEmbedderFromClient(c, "text-embedding-004")
	vec, err := e.CreateEmbedding(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, 0.5, 1}, vec)
}
