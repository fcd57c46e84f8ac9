package usecase

import (
	"card-assist/internal/domain/entity"
	"card-assist/internal/domain/repository"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed template/synthesizer_system.txt
var synthesizerSystemTemplate string

var synthesizerSystemPrompt = strings.TrimSpace(synthesizerSystemTemplate)

// Synthesizer writes the customer-facing reply for a turn.
type Synthesizer struct {
	llm    repository.AIProvider
	params GenerationParams
}

func NewSynthesizer(llm repository.AIProvider, params GenerationParams) *Synthesizer {
	return &Synthesizer{llm: llm, params: params}
}

func (s *Synthesizer) Synthesize(ctx context.Context, transcript []entity.Message, toolResult *entity.ToolResult, kbSnippet string) (string, error) {
	prompt, err := synthesizerPrompt(transcript, toolResult, kbSnippet)
	if err != nil {
		return "", err
	}
	resp, err := s.llm.Generate(ctx, entity.GenerateRequest{
		System:      synthesizerSystemPrompt,
		Messages:    []entity.Message{{Role: entity.RoleUser, Content: prompt}},
		MaxTokens:   s.params.MaxTokens,
		Temperature: s.params.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: synthesizer: %v", entity.ErrUpstreamUnavailable, err)
	}
	return resp.Content, nil
}

func synthesizerPrompt(transcript []entity.Message, toolResult *entity.ToolResult, kbSnippet string) (string, error) {
	parts := []string{"User question: " + entity.LastUserMessage(transcript)}
	if kbSnippet != "" {
		parts = append(parts, "\nKnowledge base info:\n"+kbSnippet)
	}
	if toolResult != nil {
		b, err := json.Marshal(toolResult)
		if err != nil {
			return "", fmt.Errorf("encoding tool result: %w", err)
		}
		parts = append(parts, "\nTool result (internal data):\n"+string(b))
	}
	parts = append(parts, "\n\nUsing this context, write a clear, concise, friendly answer for the customer.")
	return strings.Join(parts, "\n"), nil
}
