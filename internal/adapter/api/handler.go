package api

import (
	"card-assist/internal/domain/entity"
	logx "card-assist/pkg/logger"
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TurnExecutor runs one chat turn.
type TurnExecutor interface {
	Execute(ctx context.Context, req entity.ChatRequest) (*entity.ChatResponse, error)
}

type ChatHandler struct {
	orchestrator TurnExecutor
	validate     *validator.Validate
	turnTimeout  time.Duration
}

func NewChatHandler(orch TurnExecutor, turnTimeout time.Duration) *ChatHandler {
	return &ChatHandler{
		orchestrator: orch,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		turnTimeout:  turnTimeout,
	}
}

func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req entity.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx := c.UserContext()
	if h.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.turnTimeout)
		defer cancel()
	}

	// Map business errors to HTTP status codes
	resp, err := h.orchestrator.Execute(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, entity.ErrRateLimitExceeded):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, entity.ErrUpstreamUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "service temporarily unavailable"})
		}
		logx.Error().Err(err).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("Chat turn failed with internal error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
