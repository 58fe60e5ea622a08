package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/apexneural-anniesiri/Project-CUA/internal/application/port/input"
	"github.com/apexneural-anniesiri/Project-CUA/internal/application/port/output"
	"github.com/apexneural-anniesiri/Project-CUA/internal/application/service"
	"github.com/apexneural-anniesiri/Project-CUA/internal/domain/entity"
)

var _ input.SessionService = (*Service)(nil)

// DriverFactory launches a fresh isolated browser for one session.
type DriverFactory func(ctx context.Context) (output.BrowserPort, error)

// Service owns the session registry and the start/step/dispose lifecycle
// around it.
type Service struct {
	registry  *service.SessionRegistry
	decider   Decider
	newDriver DriverFactory
	logger    output.LoggerPort

	hasCredentials bool
}

// NewService wires the session lifecycle. apiKey is only checked for
// presence: without model credentials no session could take a useful step,
// so starting one is refused up front.
func NewService(
	registry *service.SessionRegistry,
	decider Decider,
	newDriver DriverFactory,
	apiKey string,
	logger output.LoggerPort,
) *Service {
	return &Service{
		registry:       registry,
		decider:        decider,
		newDriver:      newDriver,
		logger:         logger,
		hasCredentials: apiKey != "",
	}
}

func (s *Service) StartSession(ctx context.Context, objective string) (*input.StartResult, error) {
	objective = strings.TrimSpace(objective)
	if objective == "" {
		return nil, ErrInvalidObjective
	}
	if !s.hasCredentials {
		return nil, ErrProviderUnavailable
	}

	id := uuid.New().String()
	sess := NewSession(id, objective, s.decider, s.logger)
	if err := sess.start(ctx, s.newDriver); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitialization, err)
	}
	s.registry.Put(id, sess)

	s.logger.Info("session started", "session", id, "objective", objective)

	return &input.StartResult{
		SessionID: id,
		Message:   "Agent session started with objective: " + objective,
	}, nil
}

func (s *Service) StepSession(ctx context.Context, sessionID string) (*entity.StepResult, error) {
	sess, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	result, err := sess.Step(ctx)
	if err != nil {
		sess.Dispose()
		s.registry.Remove(sessionID)
		return nil, fmt.Errorf("%w: %v", ErrStepExecutionFailed, err)
	}

	if result.Status == entity.SessionCompleted {
		s.registry.Remove(sessionID)
		s.logger.Info("session completed", "session", sessionID)
	}

	return result, nil
}

// DisposeSession tears a session down on request. Disposal problems are
// logged and swallowed; the session leaves the registry regardless.
func (s *Service) DisposeSession(ctx context.Context, sessionID string) error {
	sess, ok := s.registry.Get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}

	sess.Dispose()
	s.registry.Remove(sessionID)
	s.logger.Info("session disposed", "session", sessionID)
	return nil
}

func (s *Service) SessionCount() int {
	return s.registry.Len()
}

// Close disposes every live session. Called on server shutdown.
func (s *Service) Close() {
	for _, sess := range s.registry.Drain() {
		sess.Dispose()
	}
}
