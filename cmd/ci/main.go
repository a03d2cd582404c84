// Command ci runs the repository's CI workflow locally.
//
// It loads the same workflow artifact the hosted gate consumes, runs the
// job's run: steps sequentially, and exits with the first failing step's
// exit code. uses: steps are skipped: on a local checkout the repository
// and toolchain are already there.
//
// Usage:
//
//	ci                     # run .github/workflows/ci.yml
//	ci -validate           # parse and validate only
//	ci -init               # scaffold the default gate workflow
//	ci -db runs.db         # record the run like the hosted gate does
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/example/aoc2019/internal/domain"
	"github.com/example/aoc2019/internal/pipeline"
	"github.com/example/aoc2019/internal/service"
	"github.com/example/aoc2019/internal/storage"
	"github.com/example/aoc2019/internal/storage/sqlite"
	"github.com/example/aoc2019/pkg/logger"
)

var (
	workflowPath = flag.String("workflow", ".github/workflows/ci.yml", "Workflow file to execute")
	workDir      = flag.String("dir", ".", "Working directory for run: steps")
	jobID        = flag.String("job", "", "Job to execute (empty = the only job)")
	validateOnly = flag.Bool("validate", false, "Validate the workflow and exit")
	initGate     = flag.Bool("init", false, "Write the default gate workflow and exit")
	dbPath       = flag.String("db", "", "Record the run in this SQLite database")
	timeout      = flag.Duration("timeout", 30*time.Minute, "Overall timeout for the run")
	quiet        = flag.Bool("q", false, "Only print failures and the verdict")
)

// Exit codes: 0 for a passing run, the first failing step's exit code
// for a failing one, 2 for configuration and load errors.
const exitConfigError = 2

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	if *initGate {
		return scaffold()
	}

	wf, err := pipeline.Load(*workflowPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ci: %v\n", err)
		return exitConfigError
	}
	if err := wf.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ci: %v\n", err)
		return exitConfigError
	}

	if *validateOnly {
		fmt.Printf("%s: workflow %q is valid\n", *workflowPath, wf.Name)
		for _, id := range wf.JobIDs() {
			job := wf.Jobs[id]
			fmt.Printf("  job %s: %d steps on %s\n", id, len(job.Steps), job.RunsOn)
		}
		return 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "ci: interrupted, stopping current step...")
		cancel()
	}()

	execCfg := service.ExecutorConfig{Dir: *workDir, Timeout: *timeout}
	if *dbPath != "" {
		return runRecorded(ctx, wf, execCfg)
	}
	return runDirect(ctx, wf, execCfg)
}

// scaffold writes the default gate workflow, refusing to clobber an
// existing file.
func scaffold() int {
	if _, err := os.Stat(*workflowPath); err == nil {
		fmt.Fprintf(os.Stderr, "ci: %s already exists\n", *workflowPath)
		return exitConfigError
	}
	if err := os.MkdirAll(filepath.Dir(*workflowPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "ci: %v\n", err)
		return exitConfigError
	}
	if err := pipeline.DefaultGate().Save(*workflowPath); err != nil {
		fmt.Fprintf(os.Stderr, "ci: %v\n", err)
		return exitConfigError
	}
	fmt.Printf("wrote %s\n", *workflowPath)
	return 0
}

// runDirect executes the job without recording anything.
func runDirect(ctx context.Context, wf *pipeline.Workflow, execCfg service.ExecutorConfig) int {
	executor := service.NewExecutor(execCfg, logger.NewNop())
	executor.OnStep(printStep)

	result, err := executor.ExecuteJob(ctx, wf, *jobID)
	if result == nil {
		fmt.Fprintf(os.Stderr, "ci: %v\n", err)
		return exitConfigError
	}
	return verdict(result)
}

// runRecorded executes the job through the gate service so the run and
// its step results land in the same SQLite schema the server uses.
func runRecorded(ctx context.Context, wf *pipeline.Workflow, execCfg service.ExecutorConfig) int {
	log, err := logger.New("warn", false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ci: %v\n", err)
		return exitConfigError
	}
	defer log.Sync()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ci: opening database: %v\n", err)
		return exitConfigError
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ci: migrating database: %v\n", err)
		return exitConfigError
	}

	gate := service.NewGateService(store, nil, log, execCfg)
	gate.OnStep(printStep)

	queued, err := gate.Enqueue(ctx, service.EnqueueRequest{
		Workflow: wf.Name,
		JobID:    *jobID,
		Trigger:  "local",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ci: %v\n", err)
		return exitConfigError
	}

	claimed, err := claimRun(ctx, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ci: claiming run: %v\n", err)
		return exitConfigError
	}

	result, err := gate.ExecuteRun(ctx, claimed, wf)
	if result == nil {
		fmt.Fprintf(os.Stderr, "ci: %v\n", err)
		return exitConfigError
	}
	if !*quiet {
		fmt.Printf("recorded run %s in %s\n", queued.ID, *dbPath)
	}
	return verdict(result)
}

func claimRun(ctx context.Context, store storage.Storage) (*domain.Run, error) {
	uow, err := store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	run, err := uow.Runs().ClaimQueued(ctx)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return run, nil
}

func printStep(ev service.StepEvent) {
	label := ev.Step.Label()
	switch ev.State {
	case domain.StepStateRunning:
		if !*quiet {
			fmt.Printf("[%d/%d] %s ...\n", ev.Index+1, ev.Total, label)
		}
	case domain.StepStatePassed:
		if !*quiet {
			fmt.Printf("[%d/%d] %s ok (%s)\n", ev.Index+1, ev.Total, label,
				ev.Duration.Round(time.Millisecond))
		}
	case domain.StepStateFailed:
		fmt.Printf("[%d/%d] %s FAILED with exit code %d (%s)\n", ev.Index+1, ev.Total,
			label, ev.ExitCode, ev.Duration.Round(time.Millisecond))
	case domain.StepStateSkipped:
		if !*quiet {
			fmt.Printf("[%d/%d] %s skipped\n", ev.Index+1, ev.Total, label)
		}
	}
}

func verdict(result *service.JobResult) int {
	if result.Passed() {
		fmt.Printf("PASS: job %q (%d steps)\n", result.JobID, len(result.Steps))
		return 0
	}

	failed := result.Steps[result.FailedStep]
	if out := strings.TrimRight(failed.Output, "\n"); out != "" {
		fmt.Fprintln(os.Stderr, out)
	}
	fmt.Fprintf(os.Stderr, "FAIL: %s\n", result.FailureSummary())

	if result.ExitCode > 0 {
		return result.ExitCode
	}
	return 1
}
