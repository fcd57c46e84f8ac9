package entity

import "fmt"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Source tells the caller where the reply's substance came from.
type Source string

const (
	SourceKnowledgeBase Source = "knowledge_base"
	SourceTool          Source = "tool"
	SourceLLM           Source = "llm"
)

type Message struct {
	Role    Role   `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content"`
}

// ChatRequest is one inbound chat turn. Channel is passed through untouched
// (e.g. "web", "whatsapp", "app", "ivr").
type ChatRequest struct {
	UserID   string    `json:"user_id" validate:"required"`
	Channel  string    `json:"channel"`
	Messages []Message `json:"messages" validate:"required,min=1,dive"`
}

// Validate checks the parts of the turn contract that struct tags cannot express.
func (r ChatRequest) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidRequest)
	}
	if len(r.Messages) == 0 {
		return fmt.Errorf("%w: messages must not be empty", ErrInvalidRequest)
	}
	if last := r.Messages[len(r.Messages)-1]; last.Role != RoleUser {
		return fmt.Errorf("%w: last message must have role user, got %q", ErrInvalidRequest, last.Role)
	}
	return nil
}

// LastUserMessage returns the content of the final message of the transcript.
func LastUserMessage(transcript []Message) string {
	if len(transcript) == 0 {
		return ""
	}
	return transcript[len(transcript)-1].Content
}

type ToolCallResult struct {
	ToolName string     `json:"tool_name"`
	Success  bool       `json:"success"`
	Result   ToolResult `json:"result"`
}

type ChatResponse struct {
	Reply     string           `json:"reply"`
	ToolCalls []ToolCallResult `json:"tool_calls"`
	Source    Source           `json:"source"`
}
