package domain

import (
	"fmt"
	"time"
)

// RunState describes the current state of a workflow Run.
type RunState int

const (
	RunStateUnknown  RunState = 0
	RunStateQueued   RunState = 10 // Run is recorded, waiting for a dispatcher
	RunStateRunning  RunState = 20 // Steps are executing
	RunStatePassed   RunState = 30 // Every step passed
	RunStateFailed   RunState = 40 // A step exited non-zero
	RunStateErrored  RunState = 50 // The gate itself failed (config, timeout, crash)
	RunStateCanceled RunState = 60 // Dequeued without executing
)

func (s RunState) String() string {
	switch s {
	case RunStateQueued:
		return "QUEUED"
	case RunStateRunning:
		return "RUNNING"
	case RunStatePassed:
		return "PASSED"
	case RunStateFailed:
		return "FAILED"
	case RunStateErrored:
		return "ERRORED"
	case RunStateCanceled:
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}

// ParseRunState parses the string form produced by String.
func ParseRunState(s string) (RunState, error) {
	switch s {
	case "QUEUED":
		return RunStateQueued, nil
	case "RUNNING":
		return RunStateRunning, nil
	case "PASSED":
		return RunStatePassed, nil
	case "FAILED":
		return RunStateFailed, nil
	case "ERRORED":
		return RunStateErrored, nil
	case "CANCELED":
		return RunStateCanceled, nil
	default:
		return RunStateUnknown, fmt.Errorf("%w: unknown run state %q", ErrInvalidArgument, s)
	}
}

// Terminal reports whether no further transitions are allowed from s.
func (s RunState) Terminal() bool {
	switch s {
	case RunStatePassed, RunStateFailed, RunStateErrored, RunStateCanceled:
		return true
	default:
		return false
	}
}

// ValidRunStateTransition checks if a run state transition is valid.
// Valid transitions: QUEUED -> RUNNING -> {PASSED, FAILED, ERRORED},
// QUEUED -> CANCELED.
func ValidRunStateTransition(from, to RunState) bool {
	switch from {
	case RunStateQueued:
		return to == RunStateRunning || to == RunStateCanceled || to == RunStateErrored
	case RunStateRunning:
		return to == RunStatePassed || to == RunStateFailed || to == RunStateErrored
	default:
		return false
	}
}

// Run is one execution of a workflow job, hosted or local.
type Run struct {
	ID             string
	Workflow       string // workflow name from the artifact
	JobID          string
	Trigger        string // event that caused the run, e.g. "push", "manual"
	CommitRef      string // git ref or commit SHA when known, else empty
	State          RunState
	FailureSummary string // first failing step and its exit code
	CreatedAt      time.Time
	StartedAt      *time.Time
	FinishedAt     *time.Time
	UpdatedAt      time.Time
	Version        int64

	// Steps is populated on demand by the storage layer; it is not
	// written back through Run updates.
	Steps []*StepResult
}

// NewRun creates a queued Run.
func NewRun(id, workflow, jobID, trigger, commitRef string) *Run {
	now := time.Now().UTC()
	return &Run{
		ID:        id,
		Workflow:  workflow,
		JobID:     jobID,
		Trigger:   trigger,
		CommitRef: commitRef,
		State:     RunStateQueued,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

// SetState transitions the run to a new state and stamps the
// started/finished times.
func (r *Run) SetState(newState RunState) error {
	if !ValidRunStateTransition(r.State, newState) {
		return fmt.Errorf("%w: cannot transition run from %s to %s",
			ErrInvalidState, r.State, newState)
	}
	now := time.Now().UTC()
	r.State = newState
	r.UpdatedAt = now
	if newState == RunStateRunning {
		r.StartedAt = &now
	}
	if newState.Terminal() {
		r.FinishedAt = &now
	}
	// Version is managed by the storage layer.
	return nil
}

// Duration returns the wall time from start to finish, or zero when the
// run has not finished.
func (r *Run) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}
