package entity

// GenerateRequest is one call to a language model.
type GenerateRequest struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float32
}

type AIResponse struct {
	Content    string         `json:"content"`
	Model      string         `json:"model"`
	TokenCount int            `json:"token_count"`
	Latency    int64          `json:"latency_ms"`
	Metadata   map[string]any `json:"metadata"`
}
