package domain

import (
	"fmt"
	"time"
)

// StepState describes the current state of a StepResult.
type StepState int

const (
	StepStateUnknown StepState = 0
	StepStatePending StepState = 10 // Recorded, not reached yet
	StepStateRunning StepState = 20
	StepStatePassed  StepState = 30
	StepStateFailed  StepState = 40
	StepStateSkipped StepState = 50 // Never reached: fail-fast, or a uses: step run locally
)

func (s StepState) String() string {
	switch s {
	case StepStatePending:
		return "PENDING"
	case StepStateRunning:
		return "RUNNING"
	case StepStatePassed:
		return "PASSED"
	case StepStateFailed:
		return "FAILED"
	case StepStateSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// ValidStepStateTransition checks if a step state transition is valid.
// Valid transitions: PENDING -> RUNNING -> {PASSED, FAILED},
// PENDING -> SKIPPED.
func ValidStepStateTransition(from, to StepState) bool {
	switch from {
	case StepStatePending:
		return to == StepStateRunning || to == StepStateSkipped
	case StepStateRunning:
		return to == StepStatePassed || to == StepStateFailed
	default:
		return false
	}
}

// StepResult is the outcome of a single workflow step within a run.
type StepResult struct {
	RunID      string
	Index      int // position within the job, 0-based
	Name       string
	Command    string // run: command line, or the uses: action reference
	State      StepState
	ExitCode   int
	Output     string // combined stdout/stderr tail
	StartedAt  *time.Time
	FinishedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewStepResult creates a pending StepResult.
func NewStepResult(runID string, index int, name, command string) *StepResult {
	now := time.Now().UTC()
	return &StepResult{
		RunID:     runID,
		Index:     index,
		Name:      name,
		Command:   command,
		State:     StepStatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetState transitions the step to a new state.
func (s *StepResult) SetState(newState StepState) error {
	if !ValidStepStateTransition(s.State, newState) {
		return fmt.Errorf("%w: cannot transition step %d from %s to %s",
			ErrInvalidState, s.Index, s.State, newState)
	}
	now := time.Now().UTC()
	s.State = newState
	s.UpdatedAt = now
	if newState == StepStateRunning {
		s.StartedAt = &now
	}
	if newState == StepStatePassed || newState == StepStateFailed || newState == StepStateSkipped {
		s.FinishedAt = &now
	}
	return nil
}

// Duration returns the step wall time, or zero when it never ran.
func (s *StepResult) Duration() time.Duration {
	if s.StartedAt == nil || s.FinishedAt == nil {
		return 0
	}
	return s.FinishedAt.Sub(*s.StartedAt)
}
