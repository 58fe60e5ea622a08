package entity

type SessionState string

const (
	SessionInitializing SessionState = "initializing"
	SessionActive       SessionState = "active"
	SessionCompleted    SessionState = "completed"
	SessionFailed       SessionState = "failed"
	SessionDisposed     SessionState = "disposed"
)

// ReasoningLogEntry records one decision. Step numbers start at 1 and
// increase without gaps; the URL is the address observed when the model
// was consulted, before the action ran.
type ReasoningLogEntry struct {
	Step      int
	Reasoning string
	Action    ActionKind
	URL       string
}

type StepResult struct {
	Screenshot       string
	Logs             string
	Status           SessionState
	Action           ActionKind
	URL              string
	ExtractedContent string
}
