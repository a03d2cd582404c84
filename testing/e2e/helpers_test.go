// Package e2e exercises the gate end to end: SQLite storage, the gate
// service, the dispatcher, and the REST API, against real workflow
// files and real shell processes.
package e2e

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/aoc2019/internal/domain"
	"github.com/example/aoc2019/internal/observability"
	"github.com/example/aoc2019/internal/pipeline"
	"github.com/example/aoc2019/internal/service"
	"github.com/example/aoc2019/internal/storage/sqlite"
	"github.com/example/aoc2019/pkg/logger"
)

// TestEnv wires a complete gate around a temp database and a temp
// workflow artifact.
type TestEnv struct {
	Storage      *sqlite.SQLiteStorage
	Gate         *service.GateService
	Dispatcher   *service.Dispatcher
	Metrics      *observability.Metrics
	WorkflowPath string

	t *testing.T
}

// NewTestEnv creates a test environment with a default two-step passing
// workflow. The dispatcher is not started; call Start.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	store, err := sqlite.New(filepath.Join(dir, "e2e.db"))
	if err != nil {
		t.Fatalf("creating storage: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	workflowPath := filepath.Join(dir, "ci.yml")
	metrics := observability.NewMetrics()
	gate := service.NewGateService(store, metrics, logger.NewNop(), service.ExecutorConfig{
		Dir:     dir,
		Timeout: 30 * time.Second,
	})

	// Fast polling so tests finish quickly.
	cfg := service.DispatcherConfig{
		PollInterval:       20 * time.Millisecond,
		StaleCheckInterval: 100 * time.Millisecond,
		StaleAfter:         2 * time.Second,
		WorkflowPath:       workflowPath,
	}
	dispatcher := service.NewDispatcher(store, gate, metrics, logger.NewNop(), cfg)

	env := &TestEnv{
		Storage:      store,
		Gate:         gate,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		WorkflowPath: workflowPath,
		t:            t,
	}
	env.WriteWorkflow("echo hello", "true")
	return env
}

// WriteWorkflow replaces the workflow artifact with one shell step per
// command.
func (e *TestEnv) WriteWorkflow(commands ...string) {
	e.t.Helper()

	job := pipeline.NewWorkflow("CI").OnPush().Job("build").RunsOn("ubuntu-latest")
	for i, cmd := range commands {
		job = job.Run(fmt.Sprintf("step-%d", i), cmd)
	}
	if err := job.Done().Build().Save(e.WorkflowPath); err != nil {
		e.t.Fatalf("writing workflow: %v", err)
	}
}

// Start starts the dispatcher.
func (e *TestEnv) Start() {
	e.Dispatcher.Start()
}

// Stop stops the dispatcher and closes storage.
func (e *TestEnv) Stop() {
	e.Dispatcher.Stop()
	e.Storage.Close()
}

// Enqueue records a queued run for the configured workflow.
func (e *TestEnv) Enqueue(trigger string) *domain.Run {
	e.t.Helper()

	run, err := e.Gate.Enqueue(context.Background(), service.EnqueueRequest{
		Workflow: "CI",
		Trigger:  trigger,
	})
	if err != nil {
		e.t.Fatalf("enqueue: %v", err)
	}
	return run
}

// WaitForRun polls until the run reaches a terminal state.
func (e *TestEnv) WaitForRun(id string, timeout time.Duration) *domain.Run {
	e.t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		run, err := e.Gate.GetRun(context.Background(), id)
		if err != nil {
			e.t.Fatalf("getting run %s: %v", id, err)
		}
		if run.State.Terminal() {
			return run
		}
		time.Sleep(10 * time.Millisecond)
	}
	e.t.Fatalf("run %s did not reach a terminal state within %s", id, timeout)
	return nil
}
