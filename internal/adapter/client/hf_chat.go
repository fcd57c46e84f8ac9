package client

import (
	"card-assist/internal/domain/entity"
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const DefaultHFRouterURL = "https://router.huggingface.co/v1"

// HFChatClient talks to the Hugging Face router through its
// OpenAI-compatible chat completions API.
type HFChatClient struct {
	client *openai.Client
	model  string
}

func NewHFChatClient(baseURL, token, model string) *HFChatClient {
	cfg := openai.DefaultConfig(token)
	if baseURL == "" {
		baseURL = DefaultHFRouterURL
	}
	cfg.BaseURL = baseURL
	return &HFChatClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (h *HFChatClient) Generate(ctx context.Context, req entity.GenerateRequest) (*entity.AIResponse, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}

	resp, err := h.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       h.model,
		Messages:    msgs,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("hf chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("hf chat completion returned no choices")
	}

	return &entity.AIResponse{
		Content:    resp.Choices[0].Message.Content,
		Model:      resp.Model,
		TokenCount: resp.Usage.TotalTokens,
	}, nil
}
