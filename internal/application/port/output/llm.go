package output

import (
	"context"

	"github.com/apexneural-anniesiri/Project-CUA/internal/domain/entity"
)

type LLMPort interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type ChatRequest struct {
	Messages    []entity.Message
	Temperature float32
	MaxTokens   int
}

// ChatResponse carries the model reply as a role-stamped message.
type ChatResponse struct {
	Message entity.Message
}
