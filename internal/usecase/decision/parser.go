package decision

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/apexneural-anniesiri/Project-CUA/internal/domain/entity"
)

// ErrParse reports that a model reply could not be turned into a valid action.
var ErrParse = errors.New("unparseable action reply")

// wireAction mirrors the JSON object the model is instructed to return.
type wireAction struct {
	Action    string `json:"action"`
	URL       string `json:"url"`
	Selector  string `json:"selector"`
	Text      string `json:"text"`
	Direction string `json:"direction"`
	Reasoning string `json:"reasoning"`
}

// Parse extracts the action object from a raw model reply. Replies wrapped in
// markdown code fences or surrounded by prose are tolerated; anything that
// does not decode into a valid action for its declared kind fails with
// ErrParse.
func Parse(raw string) (*entity.Decision, error) {
	content := stripFences(raw)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON object found", ErrParse)
	}
	content = content[start : end+1]

	var wire wireAction
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	action := entity.Action{
		Kind:      entity.ActionKind(strings.ToLower(strings.TrimSpace(wire.Action))),
		URL:       wire.URL,
		Selector:  wire.Selector,
		Text:      wire.Text,
		Direction: entity.ScrollDirection(strings.ToLower(strings.TrimSpace(wire.Direction))),
	}
	if err := action.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	reasoning := strings.TrimSpace(wire.Reasoning)
	if reasoning == "" {
		reasoning = entity.DefaultReasoning
	}

	return &entity.Decision{
		Action:    action,
		Reasoning: reasoning,
	}, nil
}

// stripFences unwraps ```json ... ``` and bare ``` ... ``` blocks the way
// chat models tend to emit them.
func stripFences(content string) string {
	if idx := strings.Index(content, "```json"); idx != -1 {
		content = content[idx+len("```json"):]
		if end := strings.Index(content, "```"); end != -1 {
			content = content[:end]
		}
	} else if idx := strings.Index(content, "```"); idx != -1 {
		content = content[idx+len("```"):]
		if end := strings.Index(content, "```"); end != -1 {
			content = content[:end]
		}
	}
	return strings.TrimSpace(content)
}
