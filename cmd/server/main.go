// Command server runs the CI gate's run-history service: it records gate
// runs in SQLite, dispatches queued runs against the workflow artifact,
// and serves the REST API and metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/aoc2019/internal/observability"
	"github.com/example/aoc2019/internal/service"
	"github.com/example/aoc2019/internal/storage/sqlite"
	"github.com/example/aoc2019/internal/web"
	"github.com/example/aoc2019/pkg/logger"
)

var (
	addr         = flag.String("addr", ":8080", "HTTP listen address")
	dbPath       = flag.String("db", "runs.db", "SQLite database path")
	workflowPath = flag.String("workflow", ".github/workflows/ci.yml", "Workflow artifact executed for queued runs")
	workDir      = flag.String("dir", ".", "Working directory for run: steps")
	jobTimeout   = flag.Duration("job-timeout", 30*time.Minute, "Per-run execution timeout")
	pollInterval = flag.Duration("poll-interval", time.Second, "Queue poll interval")
	staleAfter   = flag.Duration("stale-after", 15*time.Minute, "Mark RUNNING runs errored after this long")
	logLevel     = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	development  = flag.Bool("dev", false, "Human-readable log output")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log, err := logger.New(*logLevel, *development)
	if err != nil {
		return err
	}
	defer log.Sync()

	metrics := observability.NewMetrics()

	log.Infof("opening SQLite storage at %s", *dbPath)
	store, err := sqlite.New(*dbPath)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(context.Background()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	execCfg := service.ExecutorConfig{
		Dir:     *workDir,
		Timeout: *jobTimeout,
	}
	gate := service.NewGateService(store, metrics, log, execCfg)

	dispatcherCfg := service.DefaultDispatcherConfig()
	dispatcherCfg.PollInterval = *pollInterval
	dispatcherCfg.StaleAfter = *staleAfter
	dispatcherCfg.WorkflowPath = *workflowPath
	dispatcher := service.NewDispatcher(store, gate, metrics, log, dispatcherCfg)

	server := web.NewServer(*addr, gate, store, metrics, log)

	log.Infof("starting dispatcher (workflow %s)", *workflowPath)
	dispatcher.Start()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("serving HTTP on %s", *addr)
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Infof("received %s, shutting down", sig)
	case err := <-errCh:
		if err != nil {
			dispatcher.Stop()
			return err
		}
	}

	// Stop claiming new work before closing the HTTP surface; in-flight
	// runs finish and record their results.
	dispatcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}

	log.Infof("shutdown complete")
	return nil
}
