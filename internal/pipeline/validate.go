package pipeline

import (
	"errors"
	"fmt"
)

// ErrInvalidWorkflow is wrapped by every validation error.
var ErrInvalidWorkflow = errors.New("invalid workflow")

// knownEvents are the trigger events the gate understands.
var knownEvents = map[string]bool{
	"push":              true,
	"pull_request":      true,
	"workflow_dispatch": true,
	"schedule":          true,
}

// Validate checks the workflow against the shape rules the hosted gate
// enforces. It never mutates the workflow. Errors name the offending
// job and step.
func (w *Workflow) Validate() error {
	if len(w.On.Events) == 0 {
		return fmt.Errorf("%w: no trigger events", ErrInvalidWorkflow)
	}
	for _, event := range w.On.Events {
		if !knownEvents[event] {
			return fmt.Errorf("%w: unknown trigger event %q", ErrInvalidWorkflow, event)
		}
	}

	if len(w.Jobs) == 0 {
		return fmt.Errorf("%w: no jobs", ErrInvalidWorkflow)
	}

	for _, jobID := range w.JobIDs() {
		job := w.Jobs[jobID]
		if err := validateJob(jobID, job); err != nil {
			return err
		}
	}
	return nil
}

func validateJob(jobID string, job Job) error {
	if job.RunsOn == "" {
		return fmt.Errorf("%w: job %q: runs-on is required", ErrInvalidWorkflow, jobID)
	}
	if len(job.Steps) == 0 {
		return fmt.Errorf("%w: job %q: no steps", ErrInvalidWorkflow, jobID)
	}

	names := make(map[string]int)
	for i, step := range job.Steps {
		switch {
		case step.Uses == "" && step.Run == "":
			return fmt.Errorf("%w: job %q step %d: one of run or uses is required",
				ErrInvalidWorkflow, jobID, i)
		case step.Uses != "" && step.Run != "":
			return fmt.Errorf("%w: job %q step %d: run and uses are mutually exclusive",
				ErrInvalidWorkflow, jobID, i)
		case len(step.With) > 0 && step.Uses == "":
			return fmt.Errorf("%w: job %q step %d: with requires uses",
				ErrInvalidWorkflow, jobID, i)
		}

		if step.Name != "" {
			if prev, dup := names[step.Name]; dup {
				return fmt.Errorf("%w: job %q: duplicate step name %q (steps %d and %d)",
					ErrInvalidWorkflow, jobID, step.Name, prev, i)
			}
			names[step.Name] = i
		}
	}
	return nil
}
