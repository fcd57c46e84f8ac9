package usecase

import (
	"card-assist/internal/domain/entity"
	"card-assist/internal/domain/repository"
	"context"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed template/planner_system.txt
var plannerSystemTemplate string

var plannerSystemPrompt = strings.TrimSpace(
	strings.ReplaceAll(plannerSystemTemplate, "{tools}", strings.Join(ToolNames, ", ")),
)

// GenerationParams are the sampling settings for one model role.
type GenerationParams struct {
	Temperature float32
	MaxTokens   int
}

var (
	DefaultPlannerParams     = GenerationParams{Temperature: 0.1, MaxTokens: 256}
	DefaultSynthesizerParams = GenerationParams{Temperature: 0.4, MaxTokens: 256}
)

// Planner asks the language model whether a turn needs a tool.
type Planner struct {
	llm    repository.AIProvider
	params GenerationParams
}

func NewPlanner(llm repository.AIProvider, params GenerationParams) *Planner {
	return &Planner{llm: llm, params: params}
}

// Plan returns the model's decision for the transcript. Malformed model
// output still yields a plan; only a failed model call is an error.
func (p *Planner) Plan(ctx context.Context, transcript []entity.Message, kbSnippet string) (entity.Plan, error) {
	resp, err := p.llm.Generate(ctx, entity.GenerateRequest{
		System:      plannerSystemPrompt,
		Messages:    []entity.Message{{Role: entity.RoleUser, Content: plannerPrompt(transcript, kbSnippet)}},
		MaxTokens:   p.params.MaxTokens,
		Temperature: p.params.Temperature,
	})
	if err != nil {
		return entity.Plan{}, fmt.Errorf("%w: planner: %v", entity.ErrUpstreamUnavailable, err)
	}
	return InterpretPlan(resp.Content), nil
}

func plannerPrompt(transcript []entity.Message, kbSnippet string) string {
	var parts []string

	if len(transcript) > 1 {
		var conv strings.Builder
		for _, m := range transcript[:len(transcript)-1] {
			fmt.Fprintf(&conv, "%s: %s\n", strings.ToUpper(string(m.Role)), m.Content)
		}
		parts = append(parts, "Conversation so far:\n"+conv.String())
	}
	parts = append(parts, "User question: "+entity.LastUserMessage(transcript))
	if kbSnippet != "" {
		parts = append(parts, "\nRelevant KB info:\n"+kbSnippet)
	}
	parts = append(parts, "\n\nNow decide whether to answer directly or call a tool, "+
		"and respond ONLY in one of the JSON formats described in the system prompt.")

	return strings.Join(parts, "\n")
}
