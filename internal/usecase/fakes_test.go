package usecase

import (
	"card-assist/internal/domain/entity"
	"context"
	"errors"
	"strings"
	"sync"
)

// fakeEmbedder maps known texts to fixed vectors. Unknown texts get the
// fallback vector, or an error when none is set.
type fakeEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	err      error
	calls    []string
}

func (f *fakeEmbedder) CreateEmbedding(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	if f.fallback != nil {
		return f.fallback, nil
	}
	return nil, errors.New("no vector for " + text)
}

// fakeLLM answers planner and synthesizer calls from separate scripts,
// telling them apart by system prompt.
type fakeLLM struct {
	mu         sync.Mutex
	planReply  string
	synthReply string
	planErr    error
	synthErr   error
	requests   []entity.GenerateRequest
}

func (f *fakeLLM) Generate(_ context.Context, req entity.GenerateRequest) (*entity.AIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if req.System == plannerSystemPrompt {
		if f.planErr != nil {
			return nil, f.planErr
		}
		return &entity.AIResponse{Content: f.planReply}, nil
	}
	if f.synthErr != nil {
		return nil, f.synthErr
	}
	return &entity.AIResponse{Content: f.synthReply}, nil
}

func (f *fakeLLM) synthRequests() []entity.GenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.GenerateRequest
	for _, r := range f.requests {
		if r.System != plannerSystemPrompt {
			out = append(out, r)
		}
	}
	return out
}

type fakeLimiter struct {
	allow bool
	err   error
}

func (f fakeLimiter) Allow(context.Context, string) (bool, error) {
	return f.allow, f.err
}

func userTurn(content string) []entity.Message {
	return []entity.Message{{Role: entity.RoleUser, Content: content}}
}

func lastUserContent(req entity.GenerateRequest) string {
	if len(req.Messages) == 0 {
		return ""
	}
	return req.Messages[len(req.Messages)-1].Content
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
