package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/example/aoc2019/internal/domain"
	"github.com/example/aoc2019/internal/observability"
	"github.com/example/aoc2019/internal/pipeline"
	"github.com/example/aoc2019/internal/storage"
	"github.com/example/aoc2019/pkg/logger"
)

// DispatcherConfig holds configuration for the Dispatcher.
type DispatcherConfig struct {
	PollInterval       time.Duration // How often to poll for queued runs
	StaleCheckInterval time.Duration // How often to sweep stuck runs
	StaleAfter         time.Duration // How long a RUNNING run may go without finishing
	WorkflowPath       string        // Workflow artifact executed for claimed runs
}

// DefaultDispatcherConfig returns reasonable defaults.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		PollInterval:       time.Second,
		StaleCheckInterval: 30 * time.Second,
		StaleAfter:         15 * time.Minute,
		WorkflowPath:       ".github/workflows/ci.yml",
	}
}

// Dispatcher polls the run queue and executes claimed runs through the
// gate service. One dispatcher per process; the single-writer SQLite
// setup makes ClaimQueued safe across goroutines anyway.
type Dispatcher struct {
	storage storage.Storage
	gate    *GateService
	metrics *observability.Metrics
	log     logger.Logger
	config  DispatcherConfig
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewDispatcher creates a new Dispatcher. metrics may be nil.
func NewDispatcher(
	store storage.Storage,
	gate *GateService,
	metrics *observability.Metrics,
	log logger.Logger,
	config DispatcherConfig,
) *Dispatcher {
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Dispatcher{
		storage: store,
		gate:    gate,
		metrics: metrics,
		log:     log.Named("dispatcher"),
		config:  config,
		stopCh:  make(chan struct{}),
	}
}

// Start begins the dispatcher loops.
func (d *Dispatcher) Start() {
	d.wg.Add(2)
	go d.pollLoop()
	go d.staleCheckLoop()
}

// Stop gracefully stops the dispatcher, waiting for any run in flight.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
	d.wg.Wait()
}

// pollLoop drains the run queue on every tick.
func (d *Dispatcher) pollLoop() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopCh:
			return
		case <-ticker.C:
			start := time.Now()
			if err := d.drainQueue(context.Background()); err != nil {
				d.log.Errorf("draining queue: %v", err)
			}
			d.metrics.PollCycleDuration().Observe(time.Since(start))
		}
	}
}

// staleCheckLoop periodically sweeps runs stuck in RUNNING.
func (d *Dispatcher) staleCheckLoop() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.StaleCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopCh:
			return
		case <-ticker.C:
			if err := d.sweepStaleRuns(context.Background()); err != nil {
				d.log.Errorf("sweeping stale runs: %v", err)
			}
		}
	}
}

// drainQueue claims and executes queued runs until the queue is empty
// or the dispatcher is stopped.
func (d *Dispatcher) drainQueue(ctx context.Context) error {
	for {
		select {
		case <-d.stopCh:
			return nil
		default:
		}

		run, err := d.claimNext(ctx)
		if errors.Is(err, domain.ErrNoQueuedRuns) {
			return nil
		}
		if err != nil {
			return err
		}

		d.metrics.QueueDepth().Dec()
		d.metrics.DispatchLatency().Observe(time.Since(run.CreatedAt))
		d.log.Infof("claimed run %s (queued %s)", run.ID, time.Since(run.CreatedAt).Round(time.Millisecond))

		wf, err := pipeline.Load(d.config.WorkflowPath)
		if err == nil {
			err = wf.Validate()
		}
		if err != nil {
			d.gate.FailRun(ctx, run, "loading workflow: "+err.Error())
			continue
		}

		if _, err := d.gate.ExecuteRun(ctx, run, wf); err != nil {
			d.log.Errorf("executing run %s: %v", run.ID, err)
		}
	}
}

// claimNext atomically claims the oldest queued run.
func (d *Dispatcher) claimNext(ctx context.Context) (*domain.Run, error) {
	uow, err := d.storage.Begin(ctx)
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

// sweepStaleRuns errors out runs that have been RUNNING past the
// deadline; they belong to a dispatcher that died mid-run. The current
// queue depth gauge is also resynced here.
func (d *Dispatcher) sweepStaleRuns(ctx context.Context) error {
	uow, err := d.storage.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	running, err := uow.Runs().List(ctx, storage.ListOptions{
		States: []domain.RunState{domain.RunStateRunning},
	})
	if err != nil {
		return err
	}

	cutoff := time.Now().UTC().Add(-d.config.StaleAfter)
	swept := 0
	for _, run := range running {
		if run.StartedAt == nil || run.StartedAt.After(cutoff) {
			continue
		}
		d.log.Warnf("run %s stale: running since %s", run.ID, run.StartedAt.Format(time.RFC3339))
		if err := run.SetState(domain.RunStateErrored); err != nil {
			d.log.Errorf("run %s: %v", run.ID, err)
			continue
		}
		run.FailureSummary = "run stale: no progress past deadline"
		if err := uow.Runs().Update(ctx, run); err != nil {
			d.log.Errorf("run %s: recording stale state: %v", run.ID, err)
			continue
		}
		swept++
	}

	queued, err := uow.Runs().List(ctx, storage.ListOptions{
		States: []domain.RunState{domain.RunStateQueued},
	})
	if err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	d.metrics.QueueDepth().Set(int64(len(queued)))
	if swept > 0 {
		d.metrics.StaleRunsSwept().Add(int64(swept))
		d.metrics.RunsCompleted().WithLabels(domain.RunStateErrored.String()).Add(int64(swept))
	}
	return nil
}
