package input

import (
	"context"

	"github.com/apexneural-anniesiri/Project-CUA/internal/domain/entity"
)

type StartResult struct {
	SessionID string
	Message   string
}

// SessionService is what the transport layer consumes: start a session
// with an objective, step it, and tear it down.
type SessionService interface {
	StartSession(ctx context.Context, objective string) (*StartResult, error)
	StepSession(ctx context.Context, sessionID string) (*entity.StepResult, error)
	DisposeSession(ctx context.Context, sessionID string) error

	SessionCount() int
}

// AgentSession is one live objective-bound browsing session as the registry
// stores it.
type AgentSession interface {
	ID() string
	Step(ctx context.Context) (*entity.StepResult, error)
	Dispose()
}
