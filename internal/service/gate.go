package service

import (
	"context"
	"fmt"

	"github.com/example/aoc2019/internal/domain"
	"github.com/example/aoc2019/internal/observability"
	"github.com/example/aoc2019/internal/pipeline"
	"github.com/example/aoc2019/internal/storage"
	"github.com/example/aoc2019/pkg/id"
	"github.com/example/aoc2019/pkg/logger"
)

// EnqueueRequest describes a run to be queued.
type EnqueueRequest struct {
	Workflow  string // workflow name, informational
	JobID     string // empty selects the only job at execution time
	Trigger   string // "push", "manual", ...
	CommitRef string
}

// GateService owns the run lifecycle: queueing runs, executing them
// against a workflow, and recording the results.
type GateService struct {
	storage storage.Storage
	metrics *observability.Metrics
	log     logger.Logger
	exec    ExecutorConfig
	onStep  func(StepEvent)
}

// NewGateService creates a GateService. metrics may be nil.
func NewGateService(store storage.Storage, metrics *observability.Metrics, log logger.Logger, exec ExecutorConfig) *GateService {
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &GateService{
		storage: store,
		metrics: metrics,
		log:     log.Named("gate"),
		exec:    exec,
	}
}

// OnStep registers an observer for step progress during ExecuteRun.
// Used by the local gate CLI to stream progress; not safe to call
// concurrently with ExecuteRun.
func (s *GateService) OnStep(fn func(StepEvent)) {
	s.onStep = fn
}

// Enqueue records a new queued run. Step rows are created when the run
// is claimed, once the workflow artifact has been loaded.
func (s *GateService) Enqueue(ctx context.Context, req EnqueueRequest) (*domain.Run, error) {
	if req.Trigger == "" {
		return nil, fmt.Errorf("%w: trigger is required", domain.ErrInvalidArgument)
	}

	run := domain.NewRun(id.Generate(), req.Workflow, req.JobID, req.Trigger, req.CommitRef)

	uow, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.Runs().Create(ctx, run); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.metrics.RunsEnqueued().WithLabels(req.Trigger).Inc()
	s.metrics.QueueDepth().Inc()
	s.log.Infof("enqueued run %s (trigger=%s ref=%s)", run.ID, run.Trigger, run.CommitRef)
	return run, nil
}

// GetRun returns a run with its steps populated.
func (s *GateService) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	uow, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	run, err := uow.Runs().Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	run.Steps, err = uow.Steps().ListByRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns runs, newest first.
func (s *GateService) ListRuns(ctx context.Context, opts storage.ListOptions) ([]*domain.Run, error) {
	uow, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	return uow.Runs().List(ctx, opts)
}

// CancelRun dequeues a run that has not started.
func (s *GateService) CancelRun(ctx context.Context, runID string) (*domain.Run, error) {
	uow, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	run, err := uow.Runs().Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	if err := run.SetState(domain.RunStateCanceled); err != nil {
		return nil, err
	}
	if err := uow.Runs().Update(ctx, run); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.metrics.QueueDepth().Dec()
	s.metrics.RunsCompleted().WithLabels(run.State.String()).Inc()
	s.log.Infof("canceled run %s", run.ID)
	return run, nil
}

// ExecuteRun runs an already-claimed (RUNNING) run against wf and
// records step results and the terminal run state. The returned
// JobResult is nil when execution could not start at all.
func (s *GateService) ExecuteRun(ctx context.Context, run *domain.Run, wf *pipeline.Workflow) (*JobResult, error) {
	jobID, job, err := wf.Job(run.JobID)
	if err != nil {
		s.FailRun(ctx, run, err.Error())
		return nil, err
	}
	run.JobID = jobID
	run.Workflow = wf.Name

	steps, err := s.createPendingSteps(ctx, run, job)
	if err != nil {
		s.FailRun(ctx, run, "recording steps: "+err.Error())
		return nil, err
	}

	executor := NewExecutor(s.exec, s.log)
	executor.OnStep(func(ev StepEvent) {
		if s.onStep != nil {
			s.onStep(ev)
		}
		// Best-effort intermediate visibility; the final write below is
		// authoritative.
		if ev.State != domain.StepStateRunning {
			return
		}
		if err := s.markStepRunning(ctx, steps[ev.Index]); err != nil {
			s.log.Warnf("run %s: marking step %d running: %v", run.ID, ev.Index, err)
		}
	})

	s.log.Infof("executing run %s job %q (%d steps)", run.ID, jobID, len(job.Steps))
	result, execErr := executor.ExecuteJob(ctx, wf, jobID)
	if execErr != nil && result == nil {
		s.FailRun(ctx, run, execErr.Error())
		return nil, execErr
	}

	if err := s.recordResult(ctx, run, steps, result, execErr); err != nil {
		return result, err
	}

	s.metrics.RunsCompleted().WithLabels(run.State.String()).Inc()
	if d := run.Duration(); d > 0 {
		s.metrics.RunDuration().Observe(d)
	}
	for _, outcome := range result.Steps {
		if outcome.Duration > 0 {
			s.metrics.StepDuration().WithLabels(outcome.Step.Label()).Observe(outcome.Duration)
		}
	}

	s.log.Infof("run %s finished: %s", run.ID, run.State)
	return result, execErr
}

// createPendingSteps records one pending row per workflow step.
func (s *GateService) createPendingSteps(ctx context.Context, run *domain.Run, job *pipeline.Job) ([]*domain.StepResult, error) {
	uow, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	steps := make([]*domain.StepResult, len(job.Steps))
	for i, step := range job.Steps {
		command := step.Run
		if step.Uses != "" {
			command = step.Uses
		}
		steps[i] = domain.NewStepResult(run.ID, i, step.Label(), command)
		if err := uow.Steps().Create(ctx, steps[i]); err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return steps, nil
}

func (s *GateService) markStepRunning(ctx context.Context, step *domain.StepResult) error {
	uow, err := s.storage.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	if err := step.SetState(domain.StepStateRunning); err != nil {
		return err
	}
	if err := uow.Steps().Update(ctx, step); err != nil {
		return err
	}
	return uow.Commit()
}

// recordResult writes all step outcomes and the terminal run state in
// one transaction.
func (s *GateService) recordResult(ctx context.Context, run *domain.Run, steps []*domain.StepResult, result *JobResult, execErr error) error {
	uow, err := s.storage.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	for i, outcome := range result.Steps {
		step := steps[i]
		if err := transitionStep(step, outcome.State); err != nil {
			return fmt.Errorf("run %s step %d: %w", run.ID, i, err)
		}
		step.ExitCode = outcome.ExitCode
		step.Output = outcome.Output
		if err := uow.Steps().Update(ctx, step); err != nil {
			return err
		}
	}

	state := domain.RunStatePassed
	summary := ""
	switch {
	case execErr != nil:
		state = domain.RunStateErrored
		summary = execErr.Error()
	case !result.Passed():
		state = domain.RunStateFailed
		summary = result.FailureSummary()
	}
	if err := run.SetState(state); err != nil {
		return err
	}
	run.FailureSummary = summary
	if err := uow.Runs().Update(ctx, run); err != nil {
		return err
	}
	return uow.Commit()
}

// transitionStep walks the step to the target state through RUNNING
// when the intermediate update never landed.
func transitionStep(step *domain.StepResult, target domain.StepState) error {
	if step.State == target {
		return nil
	}
	if step.State == domain.StepStatePending && target != domain.StepStateSkipped {
		if err := step.SetState(domain.StepStateRunning); err != nil {
			return err
		}
	}
	return step.SetState(target)
}

// FailRun marks a run ERRORED with the given summary. Used when
// execution could not produce step results, e.g. a missing or broken
// workflow artifact.
func (s *GateService) FailRun(ctx context.Context, run *domain.Run, summary string) {
	uow, err := s.storage.Begin(ctx)
	if err != nil {
		s.log.Errorf("run %s: opening failure transaction: %v", run.ID, err)
		return
	}
	defer uow.Rollback()

	if err := run.SetState(domain.RunStateErrored); err != nil {
		s.log.Errorf("run %s: %v", run.ID, err)
		return
	}
	run.FailureSummary = summary
	if err := uow.Runs().Update(ctx, run); err != nil {
		s.log.Errorf("run %s: recording failure: %v", run.ID, err)
		return
	}
	if err := uow.Commit(); err != nil {
		s.log.Errorf("run %s: committing failure: %v", run.ID, err)
		return
	}
	s.metrics.RunsCompleted().WithLabels(domain.RunStateErrored.String()).Inc()
	s.log.Warnf("run %s errored: %s", run.ID, summary)
}
