package entity

// DefaultReasoning stands in when the model omits its rationale.
const DefaultReasoning = "No reasoning provided"

type Decision struct {
	Action    Action
	Reasoning string
}
