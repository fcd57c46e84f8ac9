package usecase

import (
	"card-assist/internal/domain/entity"
	"card-assist/internal/domain/repository"
	"card-assist/internal/observability"
	logx "card-assist/pkg/logger"
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultKBThreshold is the score a knowledge match must exceed before its
// answer is handed to the models.
const DefaultKBThreshold float32 = 0.7

type Orchestrator struct {
	retriever   *Retriever
	planner     *Planner
	dispatcher  *Dispatcher
	synthesizer *Synthesizer
	limiter     repository.TurnLimiter
	metrics     *observability.Metrics
	threshold   float32
}

func NewOrchestrator(r *Retriever, p *Planner, d *Dispatcher, s *Synthesizer, tl repository.TurnLimiter, m *observability.Metrics, threshold float32) *Orchestrator {
	return &Orchestrator{
		retriever:   r,
		planner:     p,
		dispatcher:  d,
		synthesizer: s,
		limiter:     tl,
		metrics:     m,
		threshold:   threshold,
	}
}

// Execute runs one chat turn: retrieve, plan, optionally dispatch a tool,
// then synthesize the reply. A turn either yields a full response or an
// error; there are no partial replies.
func (u *Orchestrator) Execute(ctx context.Context, req entity.ChatRequest) (*entity.ChatResponse, error) {
	start := time.Now()
	resp, err := u.execute(ctx, req)
	if err != nil {
		u.metrics.TurnFailed(failureReason(err))
		logx.Warn().Err(err).Str("user_id", req.UserID).Msg("Chat turn failed")
		return nil, err
	}

	took := time.Since(start)
	u.metrics.TurnCompleted(string(resp.Source), took)
	logx.Info().
		Str("user_id", req.UserID).
		Str("channel", req.Channel).
		Str("source", string(resp.Source)).
		Int("tool_calls", len(resp.ToolCalls)).
		Dur("took", took).
		Msg("Chat turn completed")
	return resp, nil
}

func (u *Orchestrator) execute(ctx context.Context, req entity.ChatRequest) (*entity.ChatResponse, error) {
	// 1. Validate the turn
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. Check turn limits
	allowed, err := u.limiter.Allow(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("turn limiter check failed: %w", err)
	}
	if !allowed {
		return nil, entity.ErrRateLimitExceeded
	}

	// 3. Knowledge lookup
	question := entity.LastUserMessage(req.Messages)
	match, err := u.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrUpstreamUnavailable, err)
	}
	u.metrics.KBScore(match.Score)

	var kbSnippet string
	if match.Score > u.threshold {
		kbSnippet = match.Entry.Answer
	}
	logx.Debug().
		Float32("score", match.Score).
		Int("position", match.Position).
		Bool("used", kbSnippet != "").
		Msg("Knowledge match")

	// 4. Plan
	plan, err := u.planner.Plan(ctx, req.Messages, kbSnippet)
	if err != nil {
		return nil, err
	}

	// 5. Tool execution, always on behalf of the caller
	var (
		toolResult *entity.ToolResult
		toolCalls  []entity.ToolCallResult
		source     entity.Source
	)
	if plan.IsAction() {
		plan.Parameters["user_id"] = req.UserID
		res, err := u.dispatcher.Execute(ctx, req.UserID, plan.Action, plan.Parameters)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrUpstreamUnavailable, err)
		}
		u.metrics.ToolCalled(plan.Action, res.Success)
		logx.Info().
			Str("tool", plan.Action).
			Bool("success", res.Success).
			Str("user_id", req.UserID).
			Msg("Tool executed")

		toolResult = &res
		toolCalls = append(toolCalls, entity.ToolCallResult{
			ToolName: plan.Action,
			Success:  res.Success,
			Result:   res,
		})
		source = entity.SourceTool
	} else if kbSnippet != "" {
		source = entity.SourceKnowledgeBase
	} else {
		source = entity.SourceLLM
	}

	// 6. Final reply
	reply, err := u.synthesizer.Synthesize(ctx, req.Messages, toolResult, kbSnippet)
	if err != nil {
		return nil, err
	}

	return &entity.ChatResponse{
		Reply:     reply,
		ToolCalls: toolCalls,
		Source:    source,
	}, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, entity.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, entity.ErrRateLimitExceeded):
		return "rate_limited"
	case errors.Is(err, entity.ErrUpstreamUnavailable):
		return "upstream"
	default:
		return "internal"
	}
}
