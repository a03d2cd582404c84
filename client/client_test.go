package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/aoc2019/internal/service"
	"github.com/example/aoc2019/internal/storage/sqlite"
	"github.com/example/aoc2019/internal/web"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	gate := service.NewGateService(store, nil, nil, service.ExecutorConfig{Dir: t.TempDir()})
	server := web.NewServer("127.0.0.1:0", gate, store, nil, nil)

	httpSrv := httptest.NewServer(server.Handler())
	t.Cleanup(httpSrv.Close)
	return New(httpSrv.URL)
}

func TestClientHealth(t *testing.T) {
	c := newTestClient(t)
	require.NoError(t, c.Health(context.Background()))
}

func TestClientRunLifecycle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	run, err := c.EnqueueRun(ctx, EnqueueRunRequest{CommitRef: "abc123"})
	require.NoError(t, err)
	assert.Equal(t, "QUEUED", run.State)
	assert.Equal(t, "manual", run.Trigger)
	assert.False(t, run.Terminal())

	detail, err := c.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc123", detail.CommitRef)

	runs, err := c.ListRuns(ctx, ListRunsOptions{States: []string{"QUEUED"}})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)

	canceled, err := c.CancelRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELED", canceled.State)
	assert.True(t, canceled.Terminal())
}

func TestClientPushEvent(t *testing.T) {
	c := newTestClient(t)

	run, err := c.PushEvent(context.Background(), "refs/heads/main", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "push", run.Trigger)
	assert.Equal(t, "abc123", run.CommitRef)
}

func TestClientNotFound(t *testing.T) {
	c := newTestClient(t)

	_, err := c.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientWaitForRun(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	run, err := c.EnqueueRun(ctx, EnqueueRunRequest{})
	require.NoError(t, err)

	// Nothing dispatches the run here; cancel it so Wait returns.
	_, err = c.CancelRun(ctx, run.ID)
	require.NoError(t, err)

	done, err := c.WaitForRun(ctx, run.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "CANCELED", done.State)
}

func TestFakeMatchesAPI(t *testing.T) {
	fake := NewFake()
	ctx := context.Background()

	run, err := fake.EnqueueRun(ctx, EnqueueRunRequest{CommitRef: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "QUEUED", run.State)

	pushed, err := fake.PushEvent(ctx, "refs/heads/main", "def")
	require.NoError(t, err)
	assert.Equal(t, "push", pushed.Trigger)

	// Newest first.
	runs, err := fake.ListRuns(ctx, ListRunsOptions{})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, pushed.ID, runs[0].ID)

	require.NoError(t, fake.Finish(run.ID, "PASSED", StepResult{Index: 0, Name: "Build", State: "PASSED"}))
	detail, err := fake.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "PASSED", detail.State)
	require.Len(t, detail.Steps, 1)

	_, err = fake.CancelRun(ctx, run.ID)
	assert.Error(t, err)

	_, err = fake.GetRun(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
