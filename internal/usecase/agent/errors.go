package agent

import "errors"

var (
	// ErrInvalidObjective rejects blank objectives before any resource is
	// allocated.
	ErrInvalidObjective = errors.New("objective cannot be empty")

	// ErrProviderUnavailable means model credentials are not configured, so
	// a session could never take a useful step.
	ErrProviderUnavailable = errors.New("OPENAI_API_KEY environment variable not set")

	// ErrInitialization wraps browser launch failures during session start.
	ErrInitialization = errors.New("failed to initialize agent")

	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionNotActive = errors.New("session is not active")

	// ErrStepExecutionFailed wraps unrecoverable step errors. The session is
	// disposed and deregistered by the time this is returned.
	ErrStepExecutionFailed = errors.New("error executing step")
)
