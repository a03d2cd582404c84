package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/example/aoc2019/internal/domain"
	"github.com/example/aoc2019/internal/storage"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func commit(t *testing.T, uow storage.UnitOfWork) {
	t.Helper()
	if err := uow.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestRunCreateGet(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	uow, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	run := domain.NewRun("run-1", "CI", "build", "push", "refs/heads/main")
	if err := uow.Runs().Create(ctx, run); err != nil {
		t.Fatalf("create: %v", err)
	}
	commit(t, uow)

	uow, _ = store.Begin(ctx)
	defer uow.Rollback()
	got, err := uow.Runs().Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Workflow != "CI" || got.JobID != "build" || got.Trigger != "push" {
		t.Errorf("unexpected run: %+v", got)
	}
	if got.State != domain.RunStateQueued {
		t.Errorf("expected QUEUED, got %s", got.State)
	}
	if got.CommitRef != "refs/heads/main" {
		t.Errorf("unexpected commit ref %q", got.CommitRef)
	}
}

func TestRunGetMissing(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	uow, _ := store.Begin(ctx)
	defer uow.Rollback()
	_, err := uow.Runs().Get(ctx, "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunDuplicateCreate(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	uow, _ := store.Begin(ctx)
	run := domain.NewRun("run-1", "CI", "build", "push", "")
	if err := uow.Runs().Create(ctx, run); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := uow.Runs().Create(ctx, domain.NewRun("run-1", "CI", "build", "push", ""))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
	uow.Rollback()
}

func TestRunUpdateOptimisticLock(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	uow, _ := store.Begin(ctx)
	run := domain.NewRun("run-1", "CI", "build", "push", "")
	if err := uow.Runs().Create(ctx, run); err != nil {
		t.Fatalf("create: %v", err)
	}
	commit(t, uow)

	uow, _ = store.Begin(ctx)
	if err := run.SetState(domain.RunStateRunning); err != nil {
		t.Fatalf("set state: %v", err)
	}
	if err := uow.Runs().Update(ctx, run); err != nil {
		t.Fatalf("update: %v", err)
	}
	if run.Version != 2 {
		t.Errorf("expected version bump to 2, got %d", run.Version)
	}

	// A stale copy must be rejected.
	stale := *run
	stale.Version = 1
	err := uow.Runs().Update(ctx, &stale)
	if !errors.Is(err, domain.ErrConcurrentModify) {
		t.Errorf("expected ErrConcurrentModify, got %v", err)
	}
	uow.Rollback()
}

func TestRunListFiltering(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	uow, _ := store.Begin(ctx)
	for _, id := range []string{"a", "b", "c"} {
		if err := uow.Runs().Create(ctx, domain.NewRun(id, "CI", "build", "push", "")); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	failed := domain.NewRun("d", "CI", "build", "push", "")
	failed.SetState(domain.RunStateRunning)
	failed.SetState(domain.RunStateFailed)
	if err := uow.Runs().Create(ctx, failed); err != nil {
		t.Fatalf("create d: %v", err)
	}
	commit(t, uow)

	uow, _ = store.Begin(ctx)
	defer uow.Rollback()

	all, err := uow.Runs().List(ctx, storage.ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 runs, got %d", len(all))
	}

	queued, err := uow.Runs().List(ctx, storage.ListOptions{
		States: []domain.RunState{domain.RunStateQueued},
	})
	if err != nil {
		t.Fatalf("list queued: %v", err)
	}
	if len(queued) != 3 {
		t.Errorf("expected 3 queued runs, got %d", len(queued))
	}

	limited, err := uow.Runs().List(ctx, storage.ListOptions{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 runs with limit, got %d", len(limited))
	}
}

func TestClaimQueuedOrder(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	uow, _ := store.Begin(ctx)
	// Same timestamps collapse to id order.
	first := domain.NewRun("run-1", "CI", "build", "push", "")
	second := domain.NewRun("run-2", "CI", "build", "push", "")
	second.CreatedAt = second.CreatedAt.Add(1)
	if err := uow.Runs().Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := uow.Runs().Create(ctx, second); err != nil {
		t.Fatalf("create: %v", err)
	}
	commit(t, uow)

	uow, _ = store.Begin(ctx)
	claimed, err := uow.Runs().ClaimQueued(ctx)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed.ID != "run-1" {
		t.Errorf("expected oldest run claimed, got %s", claimed.ID)
	}
	if claimed.State != domain.RunStateRunning {
		t.Errorf("expected RUNNING after claim, got %s", claimed.State)
	}
	commit(t, uow)

	uow, _ = store.Begin(ctx)
	claimed, err = uow.Runs().ClaimQueued(ctx)
	if err != nil {
		t.Fatalf("claim second: %v", err)
	}
	if claimed.ID != "run-2" {
		t.Errorf("expected run-2, got %s", claimed.ID)
	}
	commit(t, uow)

	uow, _ = store.Begin(ctx)
	defer uow.Rollback()
	_, err = uow.Runs().ClaimQueued(ctx)
	if !errors.Is(err, domain.ErrNoQueuedRuns) {
		t.Errorf("expected ErrNoQueuedRuns, got %v", err)
	}
}

func TestStepLifecycle(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	uow, _ := store.Begin(ctx)
	run := domain.NewRun("run-1", "CI", "build", "push", "")
	if err := uow.Runs().Create(ctx, run); err != nil {
		t.Fatalf("create run: %v", err)
	}
	for i, name := range []string{"build", "vet", "test"} {
		step := domain.NewStepResult("run-1", i, name, "go "+name+" ./...")
		if err := uow.Steps().Create(ctx, step); err != nil {
			t.Fatalf("create step %d: %v", i, err)
		}
	}
	commit(t, uow)

	uow, _ = store.Begin(ctx)
	steps, err := uow.Steps().ListByRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("list steps: %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	if steps[1].Name != "vet" {
		t.Errorf("steps out of order: %+v", steps)
	}

	step := steps[0]
	step.SetState(domain.StepStateRunning)
	step.SetState(domain.StepStateFailed)
	step.ExitCode = 2
	step.Output = "some output"
	if err := uow.Steps().Update(ctx, step); err != nil {
		t.Fatalf("update step: %v", err)
	}
	commit(t, uow)

	uow, _ = store.Begin(ctx)
	defer uow.Rollback()
	steps, _ = uow.Steps().ListByRun(ctx, "run-1")
	if steps[0].State != domain.StepStateFailed || steps[0].ExitCode != 2 {
		t.Errorf("step update not persisted: %+v", steps[0])
	}
	if steps[0].Output != "some output" {
		t.Errorf("output not persisted: %q", steps[0].Output)
	}

	// Cascade delete removes steps with the run.
	uow.Rollback()
	uow, _ = store.Begin(ctx)
	if err := uow.Runs().Delete(ctx, "run-1"); err != nil {
		t.Fatalf("delete run: %v", err)
	}
	commit(t, uow)

	uow, _ = store.Begin(ctx)
	defer uow.Rollback()
	steps, err = uow.Steps().ListByRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(steps) != 0 {
		t.Errorf("expected no steps after cascade delete, got %d", len(steps))
	}
}
