package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultHFInferenceURL = "https://router.huggingface.co/hf-inference"

// HFEmbedder calls the Hugging Face feature-extraction pipeline and pools
// the token vectors it returns into a single embedding.
type HFEmbedder struct {
	httpClient *http.Client
	baseURL    string
	token      string
	model      string
}

func NewHFEmbedder(baseURL, token, model string, timeout time.Duration) *HFEmbedder {
	if baseURL == "" {
		baseURL = DefaultHFInferenceURL
	}
	return &HFEmbedder{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      token,
		model:      model,
	}
}

func (e *HFEmbedder) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, err
	}

	endpoint := e.baseURL + "/models/" + e.model + "/pipeline/feature-extraction"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feature extraction request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feature extraction read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feature extraction returned %d: %s", resp.StatusCode, truncate(payload, 200))
	}

	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedEmbedding, err)
	}
	return PoolEmbedding(raw)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
