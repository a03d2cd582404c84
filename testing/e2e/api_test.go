package e2e

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/aoc2019/client"
	"github.com/example/aoc2019/internal/web"
)

// newAPIClient exposes the environment's gate over HTTP and returns a
// typed client for it.
func newAPIClient(t *testing.T, env *TestEnv) (*client.Client, *httptest.Server) {
	t.Helper()

	server := web.NewServer(":0", env.Gate, env.Storage, env.Metrics, nil)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return client.New(ts.URL), ts
}

func TestPushEventToPassedRunOverAPI(t *testing.T) {
	env := NewTestEnv(t)
	env.Start()
	defer env.Stop()

	api, _ := newAPIClient(t, env)
	ctx := context.Background()

	if err := api.Health(ctx); err != nil {
		t.Fatalf("health: %v", err)
	}

	queued, err := api.PushEvent(ctx, "refs/heads/main", "abc1234")
	if err != nil {
		t.Fatalf("push event: %v", err)
	}
	if queued.Trigger != "push" {
		t.Errorf("trigger = %q, want push", queued.Trigger)
	}

	done, err := api.WaitForRun(ctx, queued.ID, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("waiting for run: %v", err)
	}
	if done.State != "PASSED" {
		t.Fatalf("run state = %s, want PASSED (summary: %q)", done.State, done.FailureSummary)
	}
	if done.CommitRef != "abc1234" {
		t.Errorf("commit ref = %q, want abc1234", done.CommitRef)
	}
	if len(done.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(done.Steps))
	}
	for _, step := range done.Steps {
		if step.State != "PASSED" {
			t.Errorf("step %d state = %s, want PASSED", step.Index, step.State)
		}
	}

	runs, err := api.ListRuns(ctx, client.ListRunsOptions{States: []string{"PASSED"}})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != done.ID {
		t.Errorf("list = %+v, want the one passed run", runs)
	}
}

func TestMetricsReflectCompletedRuns(t *testing.T) {
	env := NewTestEnv(t)
	env.Start()
	defer env.Stop()

	api, ts := newAPIClient(t, env)
	ctx := context.Background()

	queued, err := api.EnqueueRun(ctx, client.EnqueueRunRequest{Trigger: "manual"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := api.WaitForRun(ctx, queued.ID, 20*time.Millisecond); err != nil {
		t.Fatalf("waiting for run: %v", err)
	}

	resp, err := http.Get(ts.URL + "/api/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading metrics: %v", err)
	}

	text := string(body)
	for _, want := range []string{"runs_enqueued", "runs_completed", "run_duration"} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
