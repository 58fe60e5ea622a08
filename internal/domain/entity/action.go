package entity

import "fmt"

type ActionKind string

const (
	ActionNavigate ActionKind = "navigate"
	ActionClick    ActionKind = "click"
	ActionType     ActionKind = "type"
	ActionScroll   ActionKind = "scroll"
	ActionFinish   ActionKind = "finish"
	ActionError    ActionKind = "error"
)

func (k ActionKind) String() string {
	return string(k)
}

type ScrollDirection string

const (
	ScrollUp    ScrollDirection = "up"
	ScrollDown  ScrollDirection = "down"
	ScrollLeft  ScrollDirection = "left"
	ScrollRight ScrollDirection = "right"
)

// Action is the flat wire form shared by the model contract and the HTTP
// responses. Error is synthetic: produced by parse and transport failure
// paths, never requested from the model.
type Action struct {
	Kind      ActionKind      `json:"action"`
	URL       string          `json:"url,omitempty"`
	Selector  string          `json:"selector,omitempty"`
	Text      string          `json:"text,omitempty"`
	Direction ScrollDirection `json:"direction,omitempty"`
	Message   string          `json:"message,omitempty"`
}

func ErrorAction(message string) Action {
	return Action{Kind: ActionError, Message: message}
}

// Validate checks that the declared kind carries its required fields.
func (a Action) Validate() error {
	switch a.Kind {
	case ActionNavigate:
		if a.URL == "" {
			return fmt.Errorf("navigate action missing url")
		}
	case ActionClick:
		if a.Selector == "" {
			return fmt.Errorf("click action missing selector")
		}
	case ActionType:
		if a.Selector == "" {
			return fmt.Errorf("type action missing selector")
		}
		if a.Text == "" {
			return fmt.Errorf("type action missing text")
		}
	case ActionScroll:
		switch a.Direction {
		case ScrollUp, ScrollDown, ScrollLeft, ScrollRight:
		default:
			return fmt.Errorf("scroll action has invalid direction %q", a.Direction)
		}
	case ActionFinish:
	case ActionError:
		if a.Message == "" {
			return fmt.Errorf("error action missing message")
		}
	default:
		return fmt.Errorf("unknown action kind %q", a.Kind)
	}
	return nil
}
