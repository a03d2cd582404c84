package client

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Fake is an in-memory API implementation for tests. Enqueued runs
// stay QUEUED until the test advances them with Finish.
type Fake struct {
	mu     sync.Mutex
	nextID int
	runs   map[string]*RunDetail
	order  []string

	// HealthErr, when set, is returned by Health.
	HealthErr error
}

var _ API = (*Fake)(nil)

// NewFake creates an empty Fake.
func NewFake() *Fake {
	return &Fake{runs: make(map[string]*RunDetail)}
}

func (f *Fake) Health(ctx context.Context) error {
	return f.HealthErr
}

func (f *Fake) ListRuns(ctx context.Context, opts ListRunsOptions) ([]RunSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	wanted := make(map[string]bool, len(opts.States))
	for _, s := range opts.States {
		wanted[s] = true
	}

	var out []RunSummary
	// Newest first, like the server.
	for i := len(f.order) - 1; i >= 0; i-- {
		run := f.runs[f.order[i]]
		if len(wanted) > 0 && !wanted[run.State] {
			continue
		}
		out = append(out, run.RunSummary)
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (f *Fake) GetRun(ctx context.Context, id string) (*RunDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	run, ok := f.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	copied := *run
	copied.Steps = append([]StepResult(nil), run.Steps...)
	return &copied, nil
}

func (f *Fake) EnqueueRun(ctx context.Context, req EnqueueRunRequest) (*RunSummary, error) {
	trigger := req.Trigger
	if trigger == "" {
		trigger = "manual"
	}
	return f.enqueue(req.Workflow, req.JobID, trigger, req.CommitRef), nil
}

func (f *Fake) PushEvent(ctx context.Context, ref, commitSHA string) (*RunSummary, error) {
	commit := commitSHA
	if commit == "" {
		commit = ref
	}
	return f.enqueue("", "", "push", commit), nil
}

func (f *Fake) CancelRun(ctx context.Context, id string) (*RunSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	run, ok := f.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if run.State != "QUEUED" {
		return nil, fmt.Errorf("cannot cancel run in state %s", run.State)
	}
	run.State = "CANCELED"
	now := time.Now().UTC()
	run.FinishedAt = &now
	summary := run.RunSummary
	return &summary, nil
}

// Finish moves a run to the given terminal state with the given steps.
func (f *Fake) Finish(id, state string, steps ...StepResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	run, ok := f.runs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	now := time.Now().UTC()
	if run.StartedAt == nil {
		run.StartedAt = &now
	}
	run.State = state
	run.FinishedAt = &now
	run.Steps = steps
	sort.Slice(run.Steps, func(i, j int) bool { return run.Steps[i].Index < run.Steps[j].Index })
	return nil
}

func (f *Fake) enqueue(workflow, jobID, trigger, commitRef string) *RunSummary {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	run := &RunDetail{
		RunSummary: RunSummary{
			ID:        fmt.Sprintf("fake-run-%d", f.nextID),
			Workflow:  workflow,
			JobID:     jobID,
			Trigger:   trigger,
			CommitRef: commitRef,
			State:     "QUEUED",
			CreatedAt: time.Now().UTC(),
		},
	}
	f.runs[run.ID] = run
	f.order = append(f.order, run.ID)
	summary := run.RunSummary
	return &summary
}
