package inference

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client interface defines the methods for AI inference operations
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

// CompletionRequest holds a single prompt together with its sampling
// parameters. MaxTokens bounds the output length; Temperature controls
// creativity.
type CompletionRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
}

// CompletionResponse is the generated text plus usage metadata.
type CompletionResponse struct {
	Text        string `json:"text"`
	Model       string `json:"model,omitempty"`
	TotalTokens int    `json:"total_tokens,omitempty"`
}

const (
	DefaultMaxRetryAttempts = 3
)
