package web

import (
	"time"

	"github.com/example/aoc2019/internal/domain"
)

// RunSummary is the list representation of a run.
type RunSummary struct {
	ID             string     `json:"id"`
	Workflow       string     `json:"workflow,omitempty"`
	JobID          string     `json:"job_id,omitempty"`
	Trigger        string     `json:"trigger"`
	CommitRef      string     `json:"commit_ref,omitempty"`
	State          string     `json:"state"`
	FailureSummary string     `json:"failure_summary,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	DurationMillis int64      `json:"duration_millis,omitempty"`
}

// RunDetail is a run with its step results.
type RunDetail struct {
	RunSummary
	Steps []StepResult `json:"steps"`
}

// StepResult is the API representation of one step.
type StepResult struct {
	Index          int        `json:"index"`
	Name           string     `json:"name"`
	Command        string     `json:"command"`
	State          string     `json:"state"`
	ExitCode       int        `json:"exit_code"`
	Output         string     `json:"output,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	DurationMillis int64      `json:"duration_millis,omitempty"`
}

// ListRunsResponse is the response for GET /api/runs.
type ListRunsResponse struct {
	Runs []RunSummary `json:"runs"`
}

// EnqueueRunRequest is the body for POST /api/runs.
type EnqueueRunRequest struct {
	Workflow  string `json:"workflow,omitempty"`
	JobID     string `json:"job_id,omitempty"`
	Trigger   string `json:"trigger,omitempty"` // defaults to "manual"
	CommitRef string `json:"commit_ref,omitempty"`
}

// PushEventRequest is the GitHub-shaped body for POST /api/events/push.
// Only the fields the gate needs are decoded.
type PushEventRequest struct {
	Ref        string `json:"ref"`
	HeadCommit struct {
		ID string `json:"id"`
	} `json:"head_commit"`
}

// HealthResponse is the response for GET /api/health.
type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toRunSummary(run *domain.Run) RunSummary {
	return RunSummary{
		ID:             run.ID,
		Workflow:       run.Workflow,
		JobID:          run.JobID,
		Trigger:        run.Trigger,
		CommitRef:      run.CommitRef,
		State:          run.State.String(),
		FailureSummary: run.FailureSummary,
		CreatedAt:      run.CreatedAt,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
		DurationMillis: run.Duration().Milliseconds(),
	}
}

func toRunDetail(run *domain.Run) RunDetail {
	detail := RunDetail{
		RunSummary: toRunSummary(run),
		Steps:      make([]StepResult, 0, len(run.Steps)),
	}
	for _, step := range run.Steps {
		detail.Steps = append(detail.Steps, StepResult{
			Index:          step.Index,
			Name:           step.Name,
			Command:        step.Command,
			State:          step.State.String(),
			ExitCode:       step.ExitCode,
			Output:         step.Output,
			StartedAt:      step.StartedAt,
			FinishedAt:     step.FinishedAt,
			DurationMillis: step.Duration().Milliseconds(),
		})
	}
	return detail
}
