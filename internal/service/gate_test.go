package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/aoc2019/internal/domain"
	"github.com/example/aoc2019/internal/pipeline"
	"github.com/example/aoc2019/internal/storage"
	"github.com/example/aoc2019/internal/storage/sqlite"
)

func newTestGate(t *testing.T) (*GateService, storage.Storage) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "gate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	gate := NewGateService(store, nil, nil, ExecutorConfig{Dir: t.TempDir()})
	return gate, store
}

func claimRun(t *testing.T, store storage.Storage) *domain.Run {
	t.Helper()
	uow, err := store.Begin(context.Background())
	require.NoError(t, err)
	defer uow.Rollback()

	run, err := uow.Runs().ClaimQueued(context.Background())
	require.NoError(t, err)
	require.NoError(t, uow.Commit())
	return run
}

func TestEnqueueAndGet(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	run, err := gate.Enqueue(ctx, EnqueueRequest{
		Workflow:  "CI",
		Trigger:   "push",
		CommitRef: "abc123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, domain.RunStateQueued, run.State)

	got, err := gate.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.CommitRef)
	assert.Empty(t, got.Steps)

	_, err = gate.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEnqueueRequiresTrigger(t *testing.T) {
	gate, _ := newTestGate(t)

	_, err := gate.Enqueue(context.Background(), EnqueueRequest{Workflow: "CI"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestExecuteRunPassing(t *testing.T) {
	gate, store := newTestGate(t)
	ctx := context.Background()

	_, err := gate.Enqueue(ctx, EnqueueRequest{Trigger: "push"})
	require.NoError(t, err)
	run := claimRun(t, store)

	wf := pipeline.NewWorkflow("CI").OnPush().
		Job("build").RunsOn("local").
		Uses("actions/checkout@v4").
		Run("Echo", "echo ok").
		Done().Build()

	result, err := gate.ExecuteRun(ctx, run, wf)
	require.NoError(t, err)
	assert.True(t, result.Passed())

	got, err := gate.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatePassed, got.State)
	assert.Equal(t, "CI", got.Workflow)
	assert.Equal(t, "build", got.JobID)
	assert.Empty(t, got.FailureSummary)
	assert.NotNil(t, got.FinishedAt)

	require.Len(t, got.Steps, 2)
	assert.Equal(t, domain.StepStateSkipped, got.Steps[0].State)
	assert.Equal(t, "actions/checkout@v4", got.Steps[0].Command)
	assert.Equal(t, domain.StepStatePassed, got.Steps[1].State)
	assert.Equal(t, "ok\n", got.Steps[1].Output)
}

func TestExecuteRunFailing(t *testing.T) {
	gate, store := newTestGate(t)
	ctx := context.Background()

	_, err := gate.Enqueue(ctx, EnqueueRequest{Trigger: "push"})
	require.NoError(t, err)
	run := claimRun(t, store)

	wf := pipeline.NewWorkflow("CI").OnPush().
		Job("build").RunsOn("local").
		Run("Pass", "echo fine").
		Run("Fail", "exit 3").
		Run("Never", "echo unreachable").
		Done().Build()

	result, err := gate.ExecuteRun(ctx, run, wf)
	require.NoError(t, err)
	assert.False(t, result.Passed())
	assert.Equal(t, 3, result.ExitCode)

	got, err := gate.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStateFailed, got.State)
	assert.Contains(t, got.FailureSummary, `"Fail"`)
	assert.Contains(t, got.FailureSummary, "exit code 3")

	require.Len(t, got.Steps, 3)
	assert.Equal(t, domain.StepStatePassed, got.Steps[0].State)
	assert.Equal(t, domain.StepStateFailed, got.Steps[1].State)
	assert.Equal(t, 3, got.Steps[1].ExitCode)
	assert.Equal(t, domain.StepStateSkipped, got.Steps[2].State)
}

func TestExecuteRunUnknownJob(t *testing.T) {
	gate, store := newTestGate(t)
	ctx := context.Background()

	_, err := gate.Enqueue(ctx, EnqueueRequest{Trigger: "push", JobID: "deploy"})
	require.NoError(t, err)
	run := claimRun(t, store)

	wf := pipeline.DefaultGate()
	_, err = gate.ExecuteRun(ctx, run, wf)
	require.Error(t, err)

	got, err := gate.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStateErrored, got.State)
	assert.NotEmpty(t, got.FailureSummary)
}

func TestCancelRun(t *testing.T) {
	gate, store := newTestGate(t)
	ctx := context.Background()

	run, err := gate.Enqueue(ctx, EnqueueRequest{Trigger: "manual"})
	require.NoError(t, err)

	canceled, err := gate.CancelRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStateCanceled, canceled.State)

	// Terminal runs cannot be canceled again.
	_, err = gate.CancelRun(ctx, run.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// Nothing left to claim.
	uow, err := store.Begin(ctx)
	require.NoError(t, err)
	defer uow.Rollback()
	_, err = uow.Runs().ClaimQueued(ctx)
	assert.ErrorIs(t, err, domain.ErrNoQueuedRuns)
}

func TestListRunsByState(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	first, err := gate.Enqueue(ctx, EnqueueRequest{Trigger: "push"})
	require.NoError(t, err)
	second, err := gate.Enqueue(ctx, EnqueueRequest{Trigger: "manual"})
	require.NoError(t, err)

	_, err = gate.CancelRun(ctx, first.ID)
	require.NoError(t, err)

	queued, err := gate.ListRuns(ctx, storage.ListOptions{
		States: []domain.RunState{domain.RunStateQueued},
	})
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, second.ID, queued[0].ID)

	all, err := gate.ListRuns(ctx, storage.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
