package decision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexneural-anniesiri/Project-CUA/internal/application/port/output"
	"github.com/apexneural-anniesiri/Project-CUA/internal/domain/entity"
	"github.com/apexneural-anniesiri/Project-CUA/internal/infrastructure/logger"
	"github.com/apexneural-anniesiri/Project-CUA/internal/infrastructure/prompts"
)

type fakeLLM struct {
	content string
	err     error
	lastReq output.ChatRequest
}

func (f *fakeLLM) Chat(_ context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &output.ChatResponse{Message: entity.Message{
		Role:    entity.RoleAssistant,
		Content: f.content,
	}}, nil
}

func testInput() Input {
	return Input{
		Objective:  "Find the top post on r/golang",
		Screenshot: &entity.Screenshot{Data: []byte("img"), Format: "jpeg"},
		CurrentURL: "https://reddit.com/r/golang",
	}
}

func TestDecideBuildsVisionPrompt(t *testing.T) {
	llm := &fakeLLM{content: `{"action": "scroll", "direction": "down", "reasoning": "Look further."}`}
	engine := New(llm, logger.NewNop())

	d := engine.Decide(context.Background(), testInput())

	require.NotNil(t, d)
	assert.Equal(t, entity.ActionScroll, d.Action.Kind)
	assert.Equal(t, "Look further.", d.Reasoning)

	require.Len(t, llm.lastReq.Messages, 2)
	system := llm.lastReq.Messages[0]
	assert.Equal(t, entity.RoleSystem, system.Role)
	assert.Equal(t, prompts.DefaultSystemPrompt, system.Content)

	user := llm.lastReq.Messages[1]
	assert.Equal(t, entity.RoleUser, user.Role)
	assert.Contains(t, user.Content, "Objective: Find the top post on r/golang")
	assert.Contains(t, user.Content, "Current URL: https://reddit.com/r/golang")
	assert.Equal(t, "data:image/jpeg;base64,aW1n", user.ImageURL)

	assert.InDelta(t, 0.7, llm.lastReq.Temperature, 0.001)
	assert.Equal(t, 300, llm.lastReq.MaxTokens)
}

func TestDecideProviderFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("connection refused")}
	engine := New(llm, logger.NewNop())

	d := engine.Decide(context.Background(), testInput())

	require.NotNil(t, d)
	assert.Equal(t, entity.ActionError, d.Action.Kind)
	assert.Contains(t, d.Reasoning, "Error during action execution:")
	assert.Contains(t, d.Reasoning, "connection refused")
	assert.Equal(t, d.Reasoning, d.Action.Message)
}

func TestDecideUnparseableReply(t *testing.T) {
	llm := &fakeLLM{content: "I am unable to determine the next action."}
	engine := New(llm, logger.NewNop())

	d := engine.Decide(context.Background(), testInput())

	require.NotNil(t, d)
	assert.Equal(t, entity.ActionError, d.Action.Kind)
	assert.Contains(t, d.Reasoning, "Failed to parse AI response:")
}
