package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/apexneural-anniesiri/Project-CUA/internal/application/port/input"
	"github.com/apexneural-anniesiri/Project-CUA/internal/application/port/output"
	"github.com/apexneural-anniesiri/Project-CUA/internal/domain/entity"
	"github.com/apexneural-anniesiri/Project-CUA/internal/usecase/decision"
)

var _ input.AgentSession = (*Session)(nil)

// Decider produces the next action for the current page state.
type Decider interface {
	Decide(ctx context.Context, in decision.Input) *entity.Decision
}

// Session binds one objective to one exclusively-owned browser and one
// append-only reasoning log. Step is the only mutating operation; concurrent
// callers queue on the session lock rather than interleave.
type Session struct {
	id        string
	objective string
	driver    output.BrowserPort
	decider   Decider
	logger    output.LoggerPort

	mu    sync.Mutex
	state entity.SessionState
	log   []entity.ReasoningLogEntry
}

// NewSession creates a session without a browser. It stays initializing
// until start attaches one; stepping before that is refused.
func NewSession(id, objective string, decider Decider, logger output.LoggerPort) *Session {
	return &Session{
		id:        id,
		objective: objective,
		decider:   decider,
		logger:    logger,
		state:     entity.SessionInitializing,
	}
}

// start launches the session's browser and activates the session. On launch
// failure the session never becomes active and holds no resources.
func (s *Session) start(ctx context.Context, newDriver DriverFactory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != entity.SessionInitializing {
		return fmt.Errorf("session is %s", s.state)
	}

	driver, err := newDriver(ctx)
	if err != nil {
		return err
	}
	s.driver = driver
	s.state = entity.SessionActive
	return nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Objective() string { return s.objective }

func (s *Session) State() entity.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Log returns a copy of the reasoning history.
func (s *Session) Log() []entity.ReasoningLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.ReasoningLogEntry(nil), s.log...)
}

// Step runs one screenshot, decide, execute, record cycle and reports the
// page state captured after the action ran. A click or type that exhausted
// its fallbacks does not fail the step: the mismatch stays observable in the
// next screenshot. Errors that do escape mark the session failed and release
// the browser.
func (s *Session) Step(ctx context.Context) (*entity.StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != entity.SessionActive {
		return nil, fmt.Errorf("%w: session is %s", ErrSessionNotActive, s.state)
	}

	shot, err := s.driver.Screenshot(ctx)
	if err != nil {
		return nil, s.failLocked(fmt.Errorf("capture screenshot: %w", err))
	}
	decisionURL, err := s.driver.CurrentURL(ctx)
	if err != nil {
		return nil, s.failLocked(fmt.Errorf("read current url: %w", err))
	}

	d := s.decider.Decide(ctx, decision.Input{
		Objective:  s.objective,
		Screenshot: shot,
		CurrentURL: decisionURL,
	})

	if err := s.driver.ExecuteAction(ctx, d.Action); err != nil {
		s.logger.Warn("action execution failed",
			"session", s.id,
			"action", d.Action.Kind,
			"error", err,
		)
	}

	s.log = append(s.log, entity.ReasoningLogEntry{
		Step:      len(s.log) + 1,
		Reasoning: d.Reasoning,
		Action:    d.Action.Kind,
		URL:       decisionURL,
	})

	after, err := s.driver.Screenshot(ctx)
	if err != nil {
		return nil, s.failLocked(fmt.Errorf("capture screenshot: %w", err))
	}
	afterURL, err := s.driver.CurrentURL(ctx)
	if err != nil {
		return nil, s.failLocked(fmt.Errorf("read current url: %w", err))
	}
	extracted, err := s.driver.ExtractContent(ctx)
	if err != nil {
		return nil, s.failLocked(fmt.Errorf("extract content: %w", err))
	}

	status := entity.SessionActive
	if d.Action.Kind == entity.ActionFinish {
		status = entity.SessionCompleted
	}

	result := &entity.StepResult{
		Screenshot:       after.Base64(),
		Logs:             formatLogs(s.log),
		Status:           status,
		Action:           d.Action.Kind,
		URL:              afterURL,
		ExtractedContent: extracted,
	}

	if status == entity.SessionCompleted {
		s.state = entity.SessionCompleted
		s.logger.Info("objective reached", "session", s.id, "steps", len(s.log))
		s.disposeLocked()
	}

	return result, nil
}

// Dispose releases the browser. Valid in any state, any number of times.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposeLocked()
}

func (s *Session) failLocked(err error) error {
	s.logger.Error("step failed", "session", s.id, "error", err)
	s.state = entity.SessionFailed
	s.disposeLocked()
	return err
}

func (s *Session) disposeLocked() {
	if s.state == entity.SessionDisposed {
		return
	}
	if s.driver != nil {
		if err := s.driver.Dispose(); err != nil {
			s.logger.Warn("browser dispose failed", "session", s.id, "error", err)
		}
	}
	s.state = entity.SessionDisposed
}

func formatLogs(entries []entity.ReasoningLogEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("[Step %d] %s", e.Step, e.Reasoning))
	}
	return strings.Join(lines, "\n")
}
