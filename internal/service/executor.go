package service

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/example/aoc2019/internal/domain"
	"github.com/example/aoc2019/internal/pipeline"
	"github.com/example/aoc2019/pkg/logger"
)

// defaultOutputTail bounds how much combined stdout/stderr is kept per step.
const defaultOutputTail = 8 * 1024

// ExecutorConfig holds configuration for the step executor.
type ExecutorConfig struct {
	Dir        string        // working directory for run: steps, default "."
	Env        []string      // extra environment entries, appended to the parent's
	Timeout    time.Duration // whole-job timeout, 0 = none
	OutputTail int           // bytes of output kept per step, 0 = default
}

// StepEvent is emitted to the observer as each step starts and finishes.
type StepEvent struct {
	Index    int // 0-based position in the job
	Total    int
	Step     pipeline.Step
	State    domain.StepState
	ExitCode int
	Duration time.Duration
}

// StepOutcome is the executor's record of one finished step.
type StepOutcome struct {
	Step     pipeline.Step
	State    domain.StepState
	ExitCode int
	Output   string
	Duration time.Duration
}

// JobResult is the outcome of executing one job.
type JobResult struct {
	JobID      string
	Steps      []StepOutcome
	FailedStep int // index of the first failing step, -1 when the job passed
	ExitCode   int // exit code of the first failing step, 0 when the job passed
}

// Passed reports whether every executed step exited zero.
func (r *JobResult) Passed() bool { return r.FailedStep < 0 }

// FailureSummary names the first failing step, or "" for a passing job.
func (r *JobResult) FailureSummary() string {
	if r.Passed() {
		return ""
	}
	return fmt.Sprintf("step %q failed with exit code %d",
		r.Steps[r.FailedStep].Step.Label(), r.ExitCode)
}

// Executor runs a workflow job's steps locally, mirroring the hosted
// gate's semantics: strictly sequential, fail-fast, pass/fail decided
// solely by each tool's exit code.
//
// run: steps execute through `sh -c` in the configured directory.
// uses: steps are skipped — on a local checkout the repository is
// already there and the toolchain is ambient; action execution belongs
// to the hosted runner.
type Executor struct {
	cfg    ExecutorConfig
	log    logger.Logger
	onStep func(StepEvent)
}

// NewExecutor creates an Executor.
func NewExecutor(cfg ExecutorConfig, log logger.Logger) *Executor {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.OutputTail <= 0 {
		cfg.OutputTail = defaultOutputTail
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Executor{cfg: cfg, log: log}
}

// OnStep registers an observer called as steps start and finish.
// Must be set before ExecuteJob.
func (e *Executor) OnStep(fn func(StepEvent)) {
	e.onStep = fn
}

// ExecuteJob runs the named job of wf. A step failure is not an error:
// it is reported through the JobResult. The error return covers job
// selection and context cancellation.
func (e *Executor) ExecuteJob(ctx context.Context, wf *pipeline.Workflow, jobID string) (*JobResult, error) {
	jobID, job, err := wf.Job(jobID)
	if err != nil {
		return nil, err
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	result := &JobResult{
		JobID:      jobID,
		Steps:      make([]StepOutcome, 0, len(job.Steps)),
		FailedStep: -1,
	}

	for i, step := range job.Steps {
		// Fail-fast: everything after the first failure is skipped.
		if !result.Passed() || ctx.Err() != nil {
			result.Steps = append(result.Steps, e.skip(i, len(job.Steps), step))
			continue
		}

		if step.Uses != "" {
			e.log.Debugf("skipping action step %q (local execution)", step.Label())
			result.Steps = append(result.Steps, e.skip(i, len(job.Steps), step))
			continue
		}

		e.emit(StepEvent{Index: i, Total: len(job.Steps), Step: step, State: domain.StepStateRunning})
		outcome := e.runStep(ctx, step)
		e.emit(StepEvent{
			Index: i, Total: len(job.Steps), Step: step,
			State: outcome.State, ExitCode: outcome.ExitCode, Duration: outcome.Duration,
		})

		result.Steps = append(result.Steps, outcome)
		if outcome.State == domain.StepStateFailed {
			result.FailedStep = i
			result.ExitCode = outcome.ExitCode
		}
	}

	if err := ctx.Err(); err != nil && result.Passed() {
		return result, fmt.Errorf("job %q interrupted: %w", jobID, err)
	}
	return result, nil
}

func (e *Executor) skip(index, total int, step pipeline.Step) StepOutcome {
	e.emit(StepEvent{Index: index, Total: total, Step: step, State: domain.StepStateSkipped})
	return StepOutcome{Step: step, State: domain.StepStateSkipped}
}

func (e *Executor) emit(ev StepEvent) {
	if e.onStep != nil {
		e.onStep(ev)
	}
}

func (e *Executor) runStep(ctx context.Context, step pipeline.Step) StepOutcome {
	tail := newTailWriter(e.cfg.OutputTail)

	cmd := exec.CommandContext(ctx, "sh", "-c", step.Run)
	cmd.Dir = e.cfg.Dir
	cmd.Env = append(os.Environ(), e.cfg.Env...)
	cmd.Stdout = tail
	cmd.Stderr = tail

	// Run the step in its own process group so cancellation kills the
	// whole tree, not just the shell.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	outcome := StepOutcome{
		Step:     step,
		State:    domain.StepStatePassed,
		Output:   tail.String(),
		Duration: duration,
	}
	if err != nil {
		outcome.State = domain.StepStateFailed
		outcome.ExitCode = exitCode(err)
		e.log.Debugf("step %q failed: %v", step.Label(), err)
	}
	return outcome
}

// exitCode extracts the process exit code; failures to even start the
// shell (or a kill) report 1 so the run still counts as failed.
func exitCode(err error) int {
	if exitErr, ok := err.(*exec.ExitError); ok {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}

// tailWriter keeps the last max bytes written to it.
type tailWriter struct {
	max int
	buf []byte
}

func newTailWriter(max int) *tailWriter {
	return &tailWriter{max: max}
}

func (w *tailWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	if len(w.buf) > w.max {
		w.buf = w.buf[len(w.buf)-w.max:]
	}
	return len(p), nil
}

func (w *tailWriter) String() string {
	return string(w.buf)
}
