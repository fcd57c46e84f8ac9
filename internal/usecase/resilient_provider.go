package usecase

import (
	"card-assist/internal/domain/entity"
	"card-assist/internal/domain/repository"
	logx "card-assist/pkg/logger"
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// ResilienceOptions tune ResilientProvider. The zero value of MaxRetries
// means a single attempt against the primary model.
type ResilienceOptions struct {
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
}

var DefaultResilienceOptions = ResilienceOptions{
	Timeout:    25 * time.Second,
	MaxRetries: 0,
	BaseDelay:  500 * time.Millisecond,
}

type ResilientProvider struct {
	primary    repository.AIProvider
	fallback   repository.AIProvider // optional, tried once after the primary gives up
	maxRetries int
	baseDelay  time.Duration
	timeout    time.Duration
}

func NewResilientProvider(primary, fallback repository.AIProvider, opts ResilienceOptions) *ResilientProvider {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultResilienceOptions.Timeout
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultResilienceOptions.BaseDelay
	}
	return &ResilientProvider{
		primary:    primary,
		fallback:   fallback,
		maxRetries: max(opts.MaxRetries, 0),
		baseDelay:  opts.BaseDelay,
		timeout:    opts.Timeout,
	}
}

func (r *ResilientProvider) Generate(ctx context.Context, req entity.GenerateRequest) (*entity.AIResponse, error) {
	// Scoped so one slow upstream call cannot hold the turn indefinitely
	resCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	started := time.Now()
	resp, err := r.executeWithRetry(resCtx, r.primary, req)
	if err == nil {
		resp.Latency = time.Since(started).Milliseconds()
		return resp, nil
	}
	if r.fallback == nil {
		return nil, err
	}

	logx.Warn().Err(err).Msg("Primary model exhausted, switching to fallback")

	fbCtx, fbCancel := context.WithTimeout(ctx, r.timeout)
	defer fbCancel()

	resp, err = r.fallback.Generate(fbCtx, req)
	if err != nil {
		return nil, fmt.Errorf("both primary and fallback failed: %w", err)
	}
	if resp.Metadata == nil {
		resp.Metadata = make(map[string]any)
	}
	resp.Metadata["fallback_used"] = true
	resp.Latency = time.Since(started).Milliseconds()

	return resp, nil
}

func (r *ResilientProvider) executeWithRetry(ctx context.Context, p repository.AIProvider, req entity.GenerateRequest) (*entity.AIResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		resp, err := p.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == r.maxRetries {
			break
		}

		wait := r.calculateBackoff(attempt)
		logx.Debug().Err(err).Int("attempt", attempt+1).Dur("wait", wait).Msg("Retrying model call")
		select {
		case <-time.After(wait):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func isRetryable(err error) bool {
	msg := strings.ToLower(err.Error())
	// Rate limits (429) and server errors (5xx)
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "500") ||
		strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "overloaded")
}

func (r *ResilientProvider) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.baseDelay) * float64(int(1)<<attempt)
	jitter := (rand.Float64() * 0.2) * backoff // 20% jitter
	return time.Duration(backoff + jitter)
}
