package decision

import (
	"context"
	"fmt"

	"github.com/apexneural-anniesiri/Project-CUA/internal/application/port/output"
	"github.com/apexneural-anniesiri/Project-CUA/internal/domain/entity"
	"github.com/apexneural-anniesiri/Project-CUA/internal/infrastructure/prompts"
)

const (
	decideTemperature = 0.7
	decideMaxTokens   = 300
)

// Engine asks a vision model for the next action given the current page
// state. It never fails upward: provider outages and malformed replies are
// folded into a synthetic Error decision so the session loop stays alive.
type Engine struct {
	llm    output.LLMPort
	logger output.LoggerPort
}

func New(llm output.LLMPort, logger output.LoggerPort) *Engine {
	return &Engine{
		llm:    llm,
		logger: logger,
	}
}

// Input is the page state snapshot a decision is based on.
type Input struct {
	Objective  string
	Screenshot *entity.Screenshot
	CurrentURL string
}

func (e *Engine) Decide(ctx context.Context, in Input) *entity.Decision {
	userPrompt, err := prompts.GenerateStepPrompt(prompts.StepPromptTemplate, prompts.StepPromptData{
		Objective:  in.Objective,
		CurrentURL: in.CurrentURL,
	})
	if err != nil {
		e.logger.Error("step prompt rendering failed", "error", err)
		return errorDecision(fmt.Sprintf("Error during action execution: %v", err))
	}

	resp, err := e.llm.Chat(ctx, output.ChatRequest{
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: prompts.DefaultSystemPrompt},
			{Role: entity.RoleUser, Content: userPrompt, ImageURL: in.Screenshot.DataURI()},
		},
		Temperature: decideTemperature,
		MaxTokens:   decideMaxTokens,
	})
	if err != nil {
		e.logger.Warn("model call failed", "error", err)
		return errorDecision(fmt.Sprintf("Error during action execution: %v", err))
	}

	decision, err := Parse(resp.Message.Content)
	if err != nil {
		e.logger.Warn("model reply rejected", "error", err)
		return errorDecision(fmt.Sprintf("Failed to parse AI response: %v", err))
	}

	e.logger.Info("action decided",
		"action", decision.Action.Kind,
		"reasoning", decision.Reasoning,
	)

	return decision
}

func errorDecision(message string) *entity.Decision {
	return &entity.Decision{
		Action:    entity.ErrorAction(message),
		Reasoning: message,
	}
}
